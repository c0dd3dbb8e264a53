package brix

import (
	"fmt"

	platformcore "github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
)

// VersusSnapshot is the state of a versus match broadcast to both players.
// It holds copies only and is never mutated after creation.
type VersusSnapshot struct {
	Tick   int64
	Over   bool
	Winner multiplayer.PlayerID
	Fields []FieldView // in player order
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (VersusSnapshot) IsGameSnapshot() {}

var _ multiplayer.ViewableSnapshot = VersusSnapshot{}

// Render draws both fields with the viewer's own field on the left.
func (s VersusSnapshot) Render(dst *platformcore.Screen, side multiplayer.PlayerID) {
	dst.Clear()
	if len(s.Fields) < 2 {
		return
	}

	own := max(side.Index(), 0)
	order := []int{own, 1 - own}
	labels := []string{"YOU", "RIVAL"}

	v := s.Fields[0]
	fw, fh := FieldSize(v.Cols, v.Rows())
	const statsH = 6
	gap := 4
	totalW := 2*fw + gap

	if dst.Width() < totalW || dst.Height() < fh+statsH+1 {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}

	x := (dst.Width() - totalW) / 2
	y := max((dst.Height()-fh-statsH-1)/2, 0)
	for i, idx := range order {
		fx := x + i*(fw+gap)
		dst.DrawTextColored(fx, y, labels[i], platformcore.ColorCyan)
		DrawField(dst, fx, y+1, s.Fields[idx])
		drawStats(dst, fx, y+fh+1, s.Fields[idx])
	}

	if !s.Over {
		return
	}
	switch s.Winner {
	case multiplayer.NoPlayer:
		drawCenteredMessage(dst, "DRAW", "Both fields topped out")
	case side:
		drawCenteredMessage(dst, "YOU WIN", fmt.Sprintf("Score: %d", s.Fields[own].Tally.Score))
	default:
		drawCenteredMessage(dst, "YOU LOSE", fmt.Sprintf("Score: %d", s.Fields[own].Tally.Score))
	}
}
