package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func isA[T core.Event](e core.Event) bool {
	_, ok := e.(T)
	return ok
}

func TestCursorMovedEvents(t *testing.T) {
	f := direct(t, newPit())

	f.cursor.Move(core.DirRight)
	f.cursor.Move(core.DirNone)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, core.CursorMoved{Dir: core.DirRight, At: core.RC(-5, 3), Moved: true}, f.events.events[0])

	for i := 0; i < 5; i++ {
		f.cursor.Move(core.DirRight)
	}
	assert.Equal(t, 6, f.events.count(isA[core.CursorMoved]))
	last := f.events.events[len(f.events.events)-1].(core.CursorMoved)
	assert.False(t, last.Moved, "blocked moves are still reported")
}

func TestSwapBegunEvents(t *testing.T) {
	pit := newPit()
	populate(pit, []core.Color{B, R})
	f := direct(t, pit)

	assert.True(t, f.dir.Swap(core.RC(0, 0)))
	assert.True(t, f.dir.Swap(core.RC(0, 1)))
	assert.False(t, f.dir.Swap(core.RC(-1, 1)))

	assert.Equal(t, []core.Event{
		core.SwapBegun{At: core.RC(0, 0)},
		core.SwapBegun{At: core.RC(0, 1)},
	}, f.events.events)
}

func TestBlockDiedEvents(t *testing.T) {
	pit := newPit()
	blue := pit.SpawnBlock(B, core.RC(0, 0), core.StateRest)
	blue.SetState(core.StateBreak, 1, 1)
	fake := pit.SpawnBlock(core.ColorFake, core.RC(0, 3), core.StateRest)
	fake.SetState(core.StateBreak, 1, 1)
	f := direct(t, pit)

	f.run(1)
	assert.Equal(t, []core.Event{core.BlockDied{At: core.RC(0, 0), Color: B}}, f.events.events)
	assert.Nil(t, pit.At(core.RC(0, 3)), "placeholder is removed silently")

	f.run(5)
	assert.Equal(t, 1, f.events.count(isA[core.BlockDied]))
}

func TestGarbageDissolvedEvents(t *testing.T) {
	pit := newPit()
	populate(pit, []core.Color{B, B, 0, B})
	pit.SpawnGarbage(core.RC(-1, 2), 3, 1, []core.Color{R, Y, G})
	f := direct(t, pit)

	require.True(t, f.dir.Swap(core.RC(0, 2)))
	f.run(35)
	assert.Zero(t, f.events.count(isA[core.GarbageDissolved]))

	f.run(1)
	assert.Equal(t, 1, f.events.count(isA[core.GarbageDissolved]))
	assert.Equal(t, 3, f.events.count(isA[core.BlockDied]))
	for c := 2; c <= 4; c++ {
		b := pit.BlockAt(core.RC(-1, c))
		if b == nil {
			b = pit.BlockAt(core.RC(0, c))
		}
		assert.NotNil(t, b, "loot in column %d", c)
	}
}

func TestHubFansOutInOrder(t *testing.T) {
	var got []string
	hub := core.NewHub(
		core.SinkFunc(func(core.Event) { got = append(got, "first") }),
		nil,
		core.SinkFunc(func(core.Event) { got = append(got, "second") }),
	)
	hub.Add(core.NopSink{})

	hub.Fire(core.ChainFinished{Counter: 2})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestOutcomeMirrorsEvents(t *testing.T) {
	pit := newPit()
	populate(pit, []core.Color{B, B, R, B})
	f := direct(t, pit)
	require.True(t, f.dir.Swap(core.RC(0, 2)))

	var outs []core.Outcome
	for i := 0; i < 36; i++ {
		pit.Update()
		outs = append(outs, f.dir.Update())
	}

	assert.True(t, outs[5].Match)
	assert.Equal(t, 3, outs[5].Combo)
	assert.True(t, outs[5].Breaking)
	assert.Equal(t, 3, outs[35].Died)
	assert.True(t, outs[35].ChainFinished)
	assert.Equal(t, 0, outs[35].Chain)
}
