package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func TestNewPitGeometry(t *testing.T) {
	pit := newPit()

	assert.Equal(t, -9, pit.Top())
	assert.Equal(t, 0, pit.Bottom())
	assert.Equal(t, core.RC(-5, 2), pit.Cursor())
	assert.Equal(t, 1, pit.Peak())
	assert.Equal(t, 90, pit.Panic())
	assert.False(t, pit.IsFull())
	assert.NoError(t, pit.Validate())
}

func TestSpawnIndexesEveryCell(t *testing.T) {
	pit := newPit()
	b := pit.SpawnBlock(R, core.RC(0, 1), core.StateRest)
	g := pit.SpawnGarbage(core.RC(-3, 2), 3, 2, make([]core.Color, 6))

	assert.Same(t, b, pit.At(core.RC(0, 1)))
	for _, rc := range []core.RowCol{core.RC(-3, 2), core.RC(-3, 4), core.RC(-2, 2), core.RC(-2, 4)} {
		assert.Same(t, g, pit.At(rc), "cell %v", rc)
	}
	assert.Nil(t, pit.At(core.RC(-1, 2)))
	assert.Nil(t, pit.At(core.RC(-3, 5)))
	assert.Equal(t, -3, pit.Peak())
	assert.Equal(t, 2, pit.Len())
	assert.NoError(t, pit.Validate())
}

func TestSpawnRejectsBadPlacement(t *testing.T) {
	tests := []struct {
		name  string
		spawn func(*core.Pit)
	}{
		{"block left of field", func(p *core.Pit) { p.SpawnBlock(R, core.RC(0, -1), core.StateRest) }},
		{"block right of field", func(p *core.Pit) { p.SpawnBlock(R, core.RC(0, 6), core.StateRest) }},
		{"block on block", func(p *core.Pit) {
			p.SpawnBlock(R, core.RC(0, 0), core.StateRest)
			p.SpawnBlock(B, core.RC(0, 0), core.StateRest)
		}},
		{"garbage over edge", func(p *core.Pit) { p.SpawnGarbage(core.RC(0, 4), 3, 1, make([]core.Color, 3)) }},
		{"garbage short loot", func(p *core.Pit) { p.SpawnGarbage(core.RC(0, 0), 3, 2, make([]core.Color, 5)) }},
		{"garbage over block", func(p *core.Pit) {
			p.SpawnBlock(R, core.RC(-1, 2), core.StateRest)
			p.SpawnGarbage(core.RC(-2, 0), 6, 2, make([]core.Color, 12))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pit := newPit()
			defer func() {
				r := recover()
				require.NotNil(t, r, "expected a panic")
				_, ok := r.(*core.InvariantError)
				assert.True(t, ok, "panic value %T, expected *core.InvariantError", r)
			}()
			tc.spawn(pit)
		})
	}
}

func TestCanFallAndFall(t *testing.T) {
	pit := newPit()
	populate(pit, []core.Color{B, R}, []core.Color{0, B})
	b := pit.SpawnBlock(Y, core.RC(-3, 0), core.StateRest)
	g := pit.SpawnGarbage(core.RC(-2, 1), 3, 1, make([]core.Color, 3))

	assert.True(t, pit.CanFall(b))
	assert.False(t, pit.CanFall(g), "garbage rests on the blue block")
	assert.False(t, pit.CanFall(pit.At(core.RC(0, 0))), "bottom row cannot fall")

	pit.Fall(b)
	assert.Equal(t, core.RC(-2, 0), b.RC())
	assert.Nil(t, pit.At(core.RC(-3, 0)))
	assert.Same(t, b, pit.At(core.RC(-2, 0)))
	assert.Equal(t, -2, pit.Peak())
	assert.NoError(t, pit.Validate())
}

func TestSwapExchangesPositionsAndChaining(t *testing.T) {
	pit := newPit()
	a := pit.SpawnBlock(R, core.RC(0, 2), core.StateRest)
	b := pit.SpawnBlock(B, core.RC(0, 3), core.StateRest)
	core.SetChaining(a, true)

	pit.Swap(a, b)

	assert.Equal(t, core.RC(0, 3), a.RC())
	assert.Equal(t, core.RC(0, 2), b.RC())
	assert.Same(t, a, pit.At(core.RC(0, 3)))
	assert.Same(t, b, pit.At(core.RC(0, 2)))
	assert.False(t, a.Chaining())
	assert.True(t, b.Chaining())
	assert.NoError(t, pit.Validate())
}

func TestSwapRejectsUnknownBlocks(t *testing.T) {
	pit := newPit()
	a := pit.SpawnBlock(R, core.RC(0, 2), core.StateRest)
	other := core.NewPit(core.DefaultRules())
	stranger := other.SpawnBlock(B, core.RC(0, 3), core.StateRest)

	assert.Panics(t, func() { pit.Swap(a, stranger) })
	assert.Equal(t, core.RC(0, 2), a.RC())
}

func TestShrinkGarbage(t *testing.T) {
	pit := newPit()
	loot := []core.Color{B, R, Y, G, P, O}
	g := pit.SpawnGarbage(core.RC(-1, 2), 3, 2, loot)

	rest := pit.Shrink(g)
	require.Same(t, g, rest)
	assert.Equal(t, 1, g.Rows())
	assert.Equal(t, []core.Color{G, P, O}, g.Loot())
	assert.Nil(t, pit.At(core.RC(0, 2)))
	assert.Same(t, g, pit.At(core.RC(-1, 2)))

	assert.Nil(t, pit.Shrink(g))
	assert.Nil(t, pit.At(core.RC(-1, 2)))
	assert.Nil(t, pit.Get(g.Handle()), "handle must go stale")
	assert.Equal(t, 0, pit.Len())
	assert.NoError(t, pit.Validate())
}

func TestRemoveDeadRefreshesPeak(t *testing.T) {
	pit := newPit()
	populate(pit, []core.Color{B}, []core.Color{R}, []core.Color{Y})
	top := pit.At(core.RC(-2, 0))
	require.Equal(t, -2, pit.Peak())

	top.SetState(core.StateDead, 1, 1)
	assert.Equal(t, 1, pit.RemoveDead())

	assert.Nil(t, pit.At(core.RC(-2, 0)))
	assert.Equal(t, -1, pit.Peak())
	assert.NoError(t, pit.Validate())
}

func TestHandlesDoNotAlias(t *testing.T) {
	pit := newPit()
	a := pit.SpawnBlock(R, core.RC(0, 0), core.StateRest)
	h := a.Handle()
	a.SetState(core.StateDead, 1, 1)
	pit.RemoveDead()

	b := pit.SpawnBlock(B, core.RC(0, 1), core.StateRest)
	assert.Nil(t, pit.Get(h))
	assert.Same(t, b, pit.Get(b.Handle()))
	assert.NotEqual(t, h, b.Handle())
}

func TestCursorMoveClamps(t *testing.T) {
	pit := newPit()

	for i := 0; i < 10; i++ {
		pit.CursorMove(core.DirLeft)
	}
	assert.Equal(t, 0, pit.Cursor().C)
	assert.False(t, pit.CursorMove(core.DirLeft))

	for i := 0; i < 10; i++ {
		pit.CursorMove(core.DirRight)
	}
	assert.Equal(t, 4, pit.Cursor().C, "cursor covers two cells")

	for i := 0; i < 20; i++ {
		pit.CursorMove(core.DirUp)
	}
	assert.Equal(t, pit.Top(), pit.Cursor().R)

	for i := 0; i < 20; i++ {
		pit.CursorMove(core.DirDown)
	}
	assert.Equal(t, pit.Bottom(), pit.Cursor().R)
	assert.False(t, pit.CursorMove(core.DirNone))
}

func TestUpdateScrollsAndKeepsCursorVisible(t *testing.T) {
	pit := newPit()
	for i := 0; i < 20; i++ {
		pit.CursorMove(core.DirUp)
	}
	require.Equal(t, -9, pit.Cursor().R)

	pit.Update()
	assert.Equal(t, -1799, pit.Scroll())
	assert.Equal(t, -8, pit.Top())
	assert.Equal(t, -8, pit.Cursor().R)
	assert.Equal(t, 1, pit.CursorTime())
}

func TestRecoveryPausesScroll(t *testing.T) {
	pit := newPit()
	pit.ReplenishRecovery()
	rules := pit.Rules()
	require.Equal(t, rules.BreakTime+rules.RecoveryTime, pit.Recovery())

	start := pit.Scroll()
	for i := 0; i < pit.Rules().BreakTime+pit.Rules().RecoveryTime; i++ {
		pit.Update()
	}
	assert.Equal(t, start, pit.Scroll())
	pit.Update()
	assert.Equal(t, start+1, pit.Scroll())
}

func TestRaiseStopsAtRowBoundary(t *testing.T) {
	pit := newPit()
	pit.ReplenishRecovery()
	pit.SetRaise()
	assert.Equal(t, 0, pit.Recovery(), "raise cancels recovery")

	for i := 0; i < 20 && pit.Raising(); i++ {
		pit.Update()
	}
	assert.False(t, pit.Raising())
	assert.Equal(t, -1600, pit.Scroll())
	assert.Equal(t, 1, pit.Bottom())
}

func TestCloneIsIndependent(t *testing.T) {
	pit := standardPit()
	c := pit.Clone()

	b := c.At(core.RC(-3, 2))
	b.SetState(core.StateDead, 1, 1)
	c.RemoveDead()

	assert.NotNil(t, pit.At(core.RC(-3, 2)))
	assert.Nil(t, c.At(core.RC(-3, 2)))
	assert.NoError(t, pit.Validate())
	assert.NoError(t, c.Validate())
}
