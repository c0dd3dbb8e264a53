package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

func draw(s core.ColorSupplier, n int) []core.Color {
	out := make([]core.Color, n)
	for i := range out {
		out[i] = s.NextSpawn()
	}
	return out
}

func TestRandomColorSupplier(t *testing.T) {
	a := core.NewRandomColorSupplier(99, 0)
	b := core.NewRandomColorSupplier(99, 0)
	other := core.NewRandomColorSupplier(99, 1)

	seq := draw(a, 64)
	assert.Equal(t, seq, draw(b, 64))
	assert.NotEqual(t, seq, draw(other, 64))
	assert.Equal(t, uint64(64), a.Drawn())

	seen := map[core.Color]bool{}
	for _, c := range seq {
		assert.True(t, c.Matchable(), "color %v", c)
		seen[c] = true
	}
	assert.Len(t, seen, core.PaletteSize)

	c := a.Clone()
	assert.Equal(t, draw(a, 8), draw(c, 8))
}

func TestCycleColorSupplier(t *testing.T) {
	s := core.NewCycleColorSupplier(R, B)
	assert.Equal(t, []core.Color{R, B, R}, draw(s, 3))

	c := s.Clone()
	assert.Equal(t, B, c.NextEmerge())
	assert.Equal(t, B, s.NextSpawn())
}

func TestColorNames(t *testing.T) {
	assert.Equal(t, "fake", core.ColorFake.String())
	assert.Equal(t, "orange", core.ColorOrange.String())
	assert.False(t, core.ColorFake.Matchable())
}
