package core

// Kind discriminates the occupant variants.
type Kind uint8

const (
	KindBlock Kind = iota
	KindGarbage
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindGarbage {
		return "garbage"
	}
	return "block"
}

// State is the timed state of an occupant.
type State uint8

const (
	StatePreview State = iota
	StateRest
	StateSwapLeft
	StateSwapRight
	StateFall
	StateLand
	StateBreak
	StateDead
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePreview:
		return "preview"
	case StateRest:
		return "rest"
	case StateSwapLeft:
		return "swap-left"
	case StateSwapRight:
		return "swap-right"
	case StateFall:
		return "fall"
	case StateLand:
		return "land"
	case StateBreak:
		return "break"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// timed reports whether the countdown runs in this state.
// Preview and Rest wait indefinitely; Dead is terminal.
func (s State) timed() bool {
	switch s {
	case StateSwapLeft, StateSwapRight, StateFall, StateLand, StateBreak:
		return true
	default:
		return false
	}
}

// Tag is the per-tick scratch set. The director clears every tag at tick
// entry; only classifier passes set them.
type Tag uint8

const (
	TagHot   Tag = 1 << iota // consider for matching this tick
	TagFall                  // fall candidate
	TagChain                 // the fall was caused by a resolving match
	TagTouch                 // garbage touched by a match
)

// Handle addresses an occupant in its pit's arena. A handle outlives its
// occupant safely: lookups with a stale generation return nil.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was issued by a pit.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// Physical is one occupant of a pit: a Block or a Garbage.
// The variant-specific fields are only meaningful for their Kind.
type Physical struct {
	handle Handle
	kind   Kind
	rc     RowCol
	state  State
	time   int
	speed  int
	tags   Tag

	// block
	color    Color
	chaining bool

	// garbage
	cols int
	rows int
	loot []Color
}

// Handle returns the occupant's arena handle.
func (p *Physical) Handle() Handle { return p.handle }

// Kind returns the variant.
func (p *Physical) Kind() Kind { return p.kind }

// IsBlock reports whether the occupant is a Block.
func (p *Physical) IsBlock() bool { return p.kind == KindBlock }

// IsGarbage reports whether the occupant is a Garbage.
func (p *Physical) IsGarbage() bool { return p.kind == KindGarbage }

// RC returns the anchor, the top-left cell of the footprint.
func (p *Physical) RC() RowCol { return p.rc }

// Cols returns the footprint width.
func (p *Physical) Cols() int { return p.cols }

// Rows returns the footprint height.
func (p *Physical) Rows() int { return p.rows }

// Bottom returns the lowest row of the footprint.
func (p *Physical) Bottom() int { return p.rc.R + p.rows - 1 }

// State returns the current state.
func (p *Physical) State() State { return p.state }

// Time returns the raw countdown.
func (p *Physical) Time() int { return p.time }

// Speed returns the countdown units consumed per update.
func (p *Physical) Speed() int { return p.speed }

// Color returns a block's color. Garbage reports ColorFake.
func (p *Physical) Color() Color { return p.color }

// Chaining reports whether a block is moving as part of an unresolved chain.
func (p *Physical) Chaining() bool { return p.chaining }

// Loot returns a copy of a garbage's remaining loot, bottom row first.
func (p *Physical) Loot() []Color {
	return append([]Color(nil), p.loot...)
}

// HasTag reports whether all of the given tags are set.
func (p *Physical) HasTag(t Tag) bool { return p.tags&t == t }

// Tags returns the current tag set.
func (p *Physical) Tags() Tag { return p.tags }

func (p *Physical) tag(t Tag)   { p.tags |= t }
func (p *Physical) untag(t Tag) { p.tags &^= t }

// Remaining returns the number of updates until the current state arrives.
// It is zero once the countdown has run out.
func (p *Physical) Remaining() int {
	if p.time <= 0 {
		return 0
	}
	return ceilDiv(p.time, p.speed)
}

// IsArriving holds for exactly the one update in which the countdown
// crossed from positive to non-positive.
func (p *Physical) IsArriving() bool {
	return p.state.timed() && p.time <= 0 && p.time > -p.speed
}

// IsFallible reports whether the occupant can start to fall.
func (p *Physical) IsFallible() bool {
	return p.state == StateRest || p.state == StateLand
}

// IsMatchable reports whether a block may take part in a match.
func (p *Physical) IsMatchable() bool {
	return p.kind == KindBlock && p.color.Matchable() &&
		(p.state == StateRest || p.state == StateLand)
}

// IsSwappable reports whether a block may take part in a swap.
func (p *Physical) IsSwappable() bool {
	if p.kind != KindBlock {
		return false
	}
	switch p.state {
	case StateRest, StateFall, StateLand, StateSwapLeft, StateSwapRight:
		return true
	default:
		return false
	}
}

// Occupies reports whether rc lies inside the footprint.
func (p *Physical) Occupies(rc RowCol) bool {
	return rc.R >= p.rc.R && rc.R < p.rc.R+p.rows &&
		rc.C >= p.rc.C && rc.C < p.rc.C+p.cols
}

// Cells returns every cell of the footprint, row by row.
func (p *Physical) Cells() []RowCol {
	cells := make([]RowCol, 0, p.rows*p.cols)
	for r := p.rc.R; r < p.rc.R+p.rows; r++ {
		for c := p.rc.C; c < p.rc.C+p.cols; c++ {
			cells = append(cells, RowCol{R: r, C: c})
		}
	}
	return cells
}

// SetState starts a new state with the given countdown.
// Preview is only valid at spawn, and garbage never swaps or lands.
func (p *Physical) SetState(state State, time, speed int) {
	enforce(p.state != StateDead, "set_state", "occupant at %v is dead", p.rc)
	enforce(time >= 1, "set_state", "time %d must be at least 1", time)
	enforce(speed >= 1, "set_state", "speed %d must be at least 1", speed)
	enforce(state != StatePreview, "set_state", "cannot return to preview")
	if p.kind == KindGarbage {
		switch state {
		case StateSwapLeft, StateSwapRight, StateLand:
			panic(invariantf("set_state", "garbage cannot enter %v", state))
		}
	}

	p.state = state
	p.time = time
	p.speed = speed
}

// Rest is shorthand for SetState(StateRest, 1, 1).
func (p *Physical) Rest() {
	p.SetState(StateRest, 1, 1)
}

// ContinueState extends the current countdown without changing state.
func (p *Physical) ContinueState(bonus int) {
	enforce(p.time+bonus > 0, "continue_state", "time %d + bonus %d must stay positive", p.time, bonus)
	p.time += bonus
}

// update advances the countdown by one tick. Breaking blocks die and
// landing occupants settle on arrival; every other arrival is left to the
// director.
func (p *Physical) update() {
	if !p.state.timed() {
		return
	}
	p.time -= p.speed
	if !p.IsArriving() {
		return
	}

	switch {
	case p.kind == KindBlock && p.state == StateBreak:
		p.state = StateDead
	case p.state == StateLand:
		p.Rest()
	}
}

// shrink drops the bottom loot row and returns the rows left.
func (p *Physical) shrink() int {
	p.loot = p.loot[p.cols:]
	p.rows--
	return p.rows
}

func (p *Physical) clone() *Physical {
	c := *p
	if p.loot != nil {
		c.loot = append([]Color(nil), p.loot...)
	}
	return &c
}
