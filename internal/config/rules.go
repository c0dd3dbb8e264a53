package config

import (
	"fmt"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

// Rules converts the config into engine rules and validates them.
func (c BrixConfig) Rules() (core.Rules, error) {
	r := core.Rules{
		Cols:            c.Pit.Cols,
		Rows:            c.Pit.Rows,
		RowHeight:       c.Pit.RowHeight,
		FallSpeed:       c.Timing.FallSpeed,
		ScrollSpeed:     c.Timing.ScrollSpeed,
		RaiseSpeed:      c.Timing.RaiseSpeed,
		SwapTime:        c.Timing.Swap,
		BreakTime:       c.Timing.Break,
		DissolveTime:    c.Timing.Dissolve,
		LandTime:        c.Timing.Land,
		RecoveryTime:    c.Timing.Recovery,
		PanicTime:       c.Timing.Panic,
		IntroTime:       c.Timing.Intro,
		DissolveAllRows: c.Garbage.DissolveAllRows,
	}
	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("invalid brix config: %w", err)
	}
	return r, nil
}

// Points converts the point values.
func (c BrixConfig) Points() core.Scoring {
	return core.Scoring{
		Block: c.Scoring.Block,
		Combo: c.Scoring.Combo,
		Chain: c.Scoring.Chain,
		Raise: c.Scoring.Raise,
	}
}
