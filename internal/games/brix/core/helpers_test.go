package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

const (
	B = core.ColorBlue
	R = core.ColorRed
	Y = core.ColorYellow
	G = core.ColorGreen
	P = core.ColorPurple
	O = core.ColorOrange
)

// recorder keeps every event a field emitted.
type recorder struct {
	events []core.Event
}

func (r *recorder) Fire(e core.Event) { r.events = append(r.events, e) }

func (r *recorder) count(match func(core.Event) bool) int {
	n := 0
	for _, e := range r.events {
		if match(e) {
			n++
		}
	}
	return n
}

func (r *recorder) matches() []core.MatchResolved {
	var out []core.MatchResolved
	for _, e := range r.events {
		if m, ok := e.(core.MatchResolved); ok {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) chains() []core.ChainFinished {
	var out []core.ChainFinished
	for _, e := range r.events {
		if c, ok := e.(core.ChainFinished); ok {
			out = append(out, c)
		}
	}
	return out
}

// field is a pit plus directors driven tick by tick.
type field struct {
	t      *testing.T
	pit    *core.Pit
	dir    *core.BlockDirector
	cursor *core.CursorDirector
	events *recorder
}

// newPit returns a pit with the default rules.
func newPit() *core.Pit {
	return core.NewPit(core.DefaultRules())
}

// populate fills rows starting at row 0 going up. A zero color leaves the
// cell empty.
func populate(pit *core.Pit, rows ...[]core.Color) {
	for i, row := range rows {
		for c, color := range row {
			if color != core.ColorFake {
				pit.SpawnBlock(color, core.RC(-i, c), core.StateRest)
			}
		}
	}
}

// standardPit builds the four-row test bed:
//
//	-3:     R Y G
//	-2: B R Y G P O
//	-1: O B R Y G P
//	 0: B R Y G P O
func standardPit() *core.Pit {
	pit := newPit()
	populate(pit,
		[]core.Color{B, R, Y, G, P, O},
		[]core.Color{O, B, R, Y, G, P},
		[]core.Color{B, R, Y, G, P, O},
		[]core.Color{0, 0, R, Y, G, 0},
	)
	return pit
}

// direct attaches directors to an already populated pit.
func direct(t *testing.T, pit *core.Pit) *field {
	t.Helper()
	rec := &recorder{}
	return &field{
		t:      t,
		pit:    pit,
		dir:    core.NewBlockDirector(pit, core.NewRandomColorSupplier(0, 0), core.WithSink(rec)),
		cursor: core.NewCursorDirector(pit, rec),
		events: rec,
	}
}

// run advances n full ticks and checks the pit invariants after each.
func (f *field) run(n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		f.pit.Update()
		f.dir.Update()
		require.NoError(f.t, f.pit.Validate())
	}
}

// fallingBlock spawns a block one row below from, already falling.
func (f *field) fallingBlock(color core.Color, from core.RowCol) *core.Physical {
	rules := f.pit.Rules()
	b := f.pit.SpawnBlock(color, from.Below(), core.StateRest)
	b.SetState(core.StateFall, rules.RowHeight, rules.FallSpeed)
	return b
}
