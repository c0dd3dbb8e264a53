package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func TestJournalOrdersInputs(t *testing.T) {
	r := core.NewRound(core.GameMeta{Players: 1}, core.DefaultRules())
	j := core.NewJournal(r, 0)

	j.Add(core.GameInput{Time: 9, Button: core.ButtonUp})
	j.Add(core.GameInput{Time: 3, Button: core.ButtonLeft})
	j.Add(core.GameInput{Time: 9, Button: core.ButtonSwap})

	got := j.Inputs()
	require.Len(t, got, 3)
	assert.Equal(t, core.ButtonLeft, got[0].Button)
	assert.Equal(t, core.ButtonUp, got[1].Button)
	assert.Equal(t, core.ButtonSwap, got[2].Button, "equal times keep arrival order")
}

func TestJournalLateInputRewinds(t *testing.T) {
	moves := 0
	sink := core.SinkFunc(func(e core.Event) {
		if _, ok := e.(core.CursorMoved); ok {
			moves++
		}
	})
	r := stackedRound(11, core.WithSinks(func(int) core.EventSink { return sink }))
	j := core.NewJournal(r, core.DefaultCheckpointInterval)

	j.Add(core.GameInput{Time: 10, Player: 0, Button: core.ButtonRight})
	r = j.Sync(r, 100)
	require.Equal(t, int64(100), r.Time())
	assert.Equal(t, 1, moves)
	onTime := r.Digest()

	j.Add(core.GameInput{Time: 50, Player: 1, Button: core.ButtonSwap})
	j.Add(core.GameInput{Time: 50, Player: 0, Button: core.ButtonLeft})
	j.Add(core.GameInput{Time: 110, Player: 0, Button: core.ButtonUp})
	r = j.Sync(r, 120)

	require.Equal(t, int64(120), r.Time())
	assert.Equal(t, 2, moves, "resimulated ticks stay silent")
	assert.NotEqual(t, onTime, r.Digest())
	assert.Equal(t, j.Replay(120).Digest(), r.Digest())
}

func TestJournalSyncWithoutLateInputKeepsRound(t *testing.T) {
	r := stackedRound(5)
	j := core.NewJournal(r, 10)

	r = j.Sync(r, 40)
	same := j.Sync(r, 60)
	assert.Same(t, r, same)

	j.Add(core.GameInput{Time: 60, Player: 0, Button: core.ButtonSwap})
	same = j.Sync(r, 70)
	assert.Same(t, r, same, "inputs for the current tick need no rewind")
	assert.Equal(t, j.Replay(70).Digest(), same.Digest())
}
