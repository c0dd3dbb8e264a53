package brix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func TestSimulateIsReproducible(t *testing.T) {
	isolate(t)
	opts := SimOptions{Players: 2, Seed: 99, Ticks: 600, Activity: 0.3}

	a := Simulate(opts)
	b := Simulate(opts)
	assert.Equal(t, a, b)
	require.Len(t, a.Tallies, 2)
	assert.LessOrEqual(t, a.Ticks, int64(600))

	c := Simulate(SimOptions{Players: 2, Seed: 100, Ticks: 600, Activity: 0.3})
	assert.NotEqual(t, a.Digest, c.Digest, "different seeds should give different rounds")
}

func TestSimulateIdleFieldTopsOut(t *testing.T) {
	isolate(t)

	res := Simulate(SimOptions{Players: 1, Seed: 3, Ticks: 6000})
	assert.True(t, res.Over)
	assert.Equal(t, core.NoOne, res.Winner, "a solo round has no winner")
	assert.Less(t, res.Ticks, int64(6000))
}
