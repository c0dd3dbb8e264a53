package core

import (
	"encoding/binary"
	"hash/fnv"
)

// Color is a block color. ColorFake is the non-matchable placeholder used
// for push swaps into empty cells.
type Color uint8

const (
	ColorFake Color = iota
	ColorBlue
	ColorRed
	ColorYellow
	ColorGreen
	ColorPurple
	ColorOrange
)

// PaletteSize is the number of matchable colors.
const PaletteSize = 6

// String returns the color name.
func (c Color) String() string {
	switch c {
	case ColorFake:
		return "fake"
	case ColorBlue:
		return "blue"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorPurple:
		return "purple"
	case ColorOrange:
		return "orange"
	default:
		return "unknown"
	}
}

// Matchable reports whether the color takes part in matches.
func (c Color) Matchable() bool {
	return c >= ColorBlue && c <= ColorOrange
}

// ColorSupplier yields colors for new preview blocks and garbage loot.
type ColorSupplier interface {
	NextSpawn() Color
	NextEmerge() Color
	// Clone returns an independent supplier positioned at the same point.
	Clone() ColorSupplier
}

// RandomColorSupplier derives every color from (seed, player, counter), so
// its output depends only on how many colors were drawn before.
type RandomColorSupplier struct {
	seed    int64
	player  int
	counter uint64
}

// NewRandomColorSupplier creates a supplier for one player's field.
func NewRandomColorSupplier(seed int64, player int) *RandomColorSupplier {
	return &RandomColorSupplier{seed: seed, player: player}
}

// NextSpawn returns the next color for a preview block.
func (s *RandomColorSupplier) NextSpawn() Color {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(s.seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(s.player+1))
	binary.LittleEndian.PutUint64(buf[16:], s.counter)
	s.counter++

	h := fnv.New64a()
	h.Write(buf[:])
	return Color(h.Sum64()%PaletteSize) + ColorBlue
}

// NextEmerge returns the next color for garbage loot.
func (s *RandomColorSupplier) NextEmerge() Color {
	return s.NextSpawn()
}

// Clone implements ColorSupplier.
func (s *RandomColorSupplier) Clone() ColorSupplier {
	c := *s
	return &c
}

// Drawn returns how many colors were drawn so far.
func (s *RandomColorSupplier) Drawn() uint64 {
	return s.counter
}

// CycleColorSupplier returns colors from a fixed sequence, wrapping around.
// Useful for scripted fields.
type CycleColorSupplier struct {
	colors []Color
	next   int
}

// NewCycleColorSupplier creates a supplier over colors. An empty list
// cycles through the whole palette.
func NewCycleColorSupplier(colors ...Color) *CycleColorSupplier {
	if len(colors) == 0 {
		colors = []Color{ColorBlue, ColorRed, ColorYellow, ColorGreen, ColorPurple, ColorOrange}
	}
	return &CycleColorSupplier{colors: append([]Color(nil), colors...)}
}

// NextSpawn implements ColorSupplier.
func (s *CycleColorSupplier) NextSpawn() Color {
	c := s.colors[s.next%len(s.colors)]
	s.next++
	return c
}

// NextEmerge implements ColorSupplier.
func (s *CycleColorSupplier) NextEmerge() Color {
	return s.NextSpawn()
}

// Clone implements ColorSupplier.
func (s *CycleColorSupplier) Clone() ColorSupplier {
	return &CycleColorSupplier{colors: s.colors, next: s.next}
}
