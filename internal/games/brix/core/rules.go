// Package core implements the deterministic per-tick simulation of a Brix
// play field: occupancy, occupant state machine, match detection, the tick
// classifier and the director that sequences them.
//
// The package performs no I/O and never reads the clock. Given the same
// Rules, seed and input sequence two runs produce identical state.
package core

// TicksPerSecond is the rate the timing constants are tuned for.
const TicksPerSecond = 30

// NoOne marks the absence of a player, e.g. no winner yet.
const NoOne = -1

// Rules holds geometry and timing for one field. All durations are in ticks
// unless the field name says otherwise.
type Rules struct {
	Cols int // field width
	Rows int // visible rows

	RowHeight   int // scroll units per row
	FallSpeed   int // fall units per tick
	ScrollSpeed int // scroll units per tick
	RaiseSpeed  int // scroll units per tick while raising

	SwapTime     int
	BreakTime    int
	DissolveTime int
	LandTime     int
	RecoveryTime int // scroll pause after a match, on top of BreakTime
	PanicTime    int
	IntroTime    int

	// DissolveAllRows keeps a touched garbage dissolving row after row
	// until it is gone instead of settling after each shrink.
	DissolveAllRows bool
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		Cols:         6,
		Rows:         10,
		RowHeight:    200,
		FallSpeed:    35,
		ScrollSpeed:  1,
		RaiseSpeed:   15,
		SwapTime:     6,
		BreakTime:    30,
		DissolveTime: 30,
		LandTime:     20,
		RecoveryTime: 50,
		PanicTime:    90,
		IntroTime:    20,
	}
}

// FallTime returns the ticks a falling occupant needs for one row when it
// starts from rest.
func (r Rules) FallTime() int {
	return ceilDiv(r.RowHeight, r.FallSpeed)
}

// Validate reports whether the rules describe a playable field.
func (r Rules) Validate() error {
	switch {
	case r.Cols < 2:
		return invariantf("rules", "cols must be at least 2, got %d", r.Cols)
	case r.Rows < 2:
		return invariantf("rules", "rows must be at least 2, got %d", r.Rows)
	case r.RowHeight < 1, r.FallSpeed < 1, r.RaiseSpeed < 1:
		return invariantf("rules", "row height and speeds must be positive")
	case r.ScrollSpeed < 0:
		return invariantf("rules", "scroll speed must not be negative")
	case r.SwapTime < 1, r.BreakTime < 1, r.DissolveTime < 1, r.LandTime < 1, r.PanicTime < 1:
		return invariantf("rules", "durations must be at least one tick")
	case r.RecoveryTime < 0, r.IntroTime < 0:
		return invariantf("rules", "recovery and intro must not be negative")
	}
	return nil
}
