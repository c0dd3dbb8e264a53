package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func TestCountdown(t *testing.T) {
	pit := newPit()
	b := pit.SpawnBlock(B, core.RC(-3, 0), core.StateRest)
	b.SetState(core.StateFall, 200, 35)

	assert.Equal(t, 6, b.Remaining())
	assert.False(t, b.IsArriving())

	for i := 0; i < 5; i++ {
		pit.Update()
	}
	assert.Equal(t, 1, b.Remaining())
	assert.False(t, b.IsArriving())

	pit.Update()
	assert.Equal(t, 0, b.Remaining())
	assert.True(t, b.IsArriving())

	pit.Update()
	assert.False(t, b.IsArriving(), "arrival lasts a single update")
}

func TestBreakAndLandArriveInUpdate(t *testing.T) {
	pit := newPit()
	breaking := pit.SpawnBlock(B, core.RC(0, 0), core.StateRest)
	breaking.SetState(core.StateBreak, 2, 1)
	landing := pit.SpawnBlock(R, core.RC(0, 1), core.StateRest)
	landing.SetState(core.StateLand, 2, 1)

	pit.Update()
	assert.Equal(t, core.StateBreak, breaking.State())
	assert.Equal(t, core.StateLand, landing.State())

	pit.Update()
	assert.Equal(t, core.StateDead, breaking.State())
	assert.Equal(t, core.StateRest, landing.State())
	assert.False(t, landing.IsArriving(), "rest is untimed")
}

func TestSetStateGuards(t *testing.T) {
	pit := newPit()
	b := pit.SpawnBlock(B, core.RC(0, 0), core.StateRest)
	g := pit.SpawnGarbage(core.RC(-1, 0), 2, 1, []core.Color{R, Y})

	assert.Panics(t, func() { b.SetState(core.StateFall, 0, 1) })
	assert.Panics(t, func() { b.SetState(core.StateFall, 10, 0) })
	assert.Panics(t, func() { b.SetState(core.StatePreview, 1, 1) })
	assert.Panics(t, func() { g.SetState(core.StateSwapLeft, 6, 1) })
	assert.Panics(t, func() { g.SetState(core.StateLand, 20, 1) })
	assert.NotPanics(t, func() { g.SetState(core.StateBreak, 30, 1) })

	b.SetState(core.StateDead, 1, 1)
	assert.Panics(t, func() { b.Rest() }, "dead is terminal")
}

func TestPredicates(t *testing.T) {
	pit := newPit()
	b := pit.SpawnBlock(B, core.RC(0, 0), core.StateRest)
	fake := pit.SpawnBlock(core.ColorFake, core.RC(0, 1), core.StateRest)
	g := pit.SpawnGarbage(core.RC(-2, 0), 3, 2, make([]core.Color, 6))

	assert.True(t, b.IsMatchable())
	assert.True(t, b.IsSwappable())
	assert.True(t, b.IsFallible())
	assert.False(t, fake.IsMatchable())
	assert.False(t, g.IsMatchable())
	assert.False(t, g.IsSwappable())
	assert.True(t, g.IsFallible())

	b.SetState(core.StateBreak, 30, 1)
	assert.False(t, b.IsMatchable())
	assert.False(t, b.IsSwappable())
	assert.False(t, b.IsFallible())

	assert.True(t, g.Occupies(core.RC(-1, 2)))
	assert.False(t, g.Occupies(core.RC(0, 0)))
	assert.Equal(t, -1, g.Bottom())
	require.Len(t, g.Cells(), 6)
	assert.Equal(t, core.RC(-2, 0), g.Cells()[0])
}

func TestTagsClearedByUntagAll(t *testing.T) {
	pit := newPit()
	b := pit.SpawnBlock(B, core.RC(0, 0), core.StateRest)
	core.TagOccupant(b, core.TagHot|core.TagFall)

	assert.True(t, b.HasTag(core.TagHot))
	assert.True(t, b.HasTag(core.TagHot|core.TagFall))
	assert.False(t, b.HasTag(core.TagTouch))

	pit.UntagAll()
	assert.Zero(t, b.Tags())
}

func TestTriggerFallsTagsColumn(t *testing.T) {
	pit := newPit()
	populate(pit, []core.Color{B, R}, []core.Color{Y, G}, []core.Color{P})
	g := pit.SpawnGarbage(core.RC(-4, 0), 3, 1, make([]core.Color, 3))
	logic := core.NewLogic(pit)

	logic.TriggerFalls(core.RC(-1, 0), true)

	assert.False(t, pit.At(core.RC(0, 0)).HasTag(core.TagFall), "below origin")
	assert.True(t, pit.At(core.RC(-1, 0)).HasTag(core.TagFall|core.TagChain))
	assert.True(t, pit.At(core.RC(-2, 0)).HasTag(core.TagFall))
	assert.True(t, g.HasTag(core.TagFall|core.TagChain))
	assert.False(t, pit.At(core.RC(-1, 1)).HasTag(core.TagFall), "other column")
}
