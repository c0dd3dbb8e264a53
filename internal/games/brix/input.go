package brix

import (
	platformcore "github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

// buttonFor maps a platform action to a field button.
func buttonFor(a platformcore.Action) core.Button {
	switch a {
	case platformcore.ActionUp:
		return core.ButtonUp
	case platformcore.ActionDown:
		return core.ButtonDown
	case platformcore.ActionLeft:
		return core.ButtonLeft
	case platformcore.ActionRight:
		return core.ButtonRight
	case platformcore.ActionSwap:
		return core.ButtonSwap
	case platformcore.ActionRaise:
		return core.ButtonRaise
	default:
		return core.ButtonNone
	}
}

// gameInputs converts a frame into timed presses for one player, keeping
// the frame's order. Terminals report key presses only, and a raise ends
// on its own at the next row boundary.
func gameInputs(in platformcore.InputFrame, player int, t int64) []core.GameInput {
	var out []core.GameInput
	for _, a := range in.Actions() {
		if b := buttonFor(a); b != core.ButtonNone {
			out = append(out, core.GameInput{Time: t, Player: player, Button: b})
		}
	}
	return out
}
