package core

// MatchBuilder collects the blocks matched in one evaluation round.
// Igniting the same block twice, or two blocks of one run, never counts a
// cell twice.
type MatchBuilder struct {
	pit *Pit

	matched  []*Physical
	seen     map[Handle]struct{}
	touched  []*Physical
	touchSet map[Handle]struct{}
	chaining bool
}

// NewMatchBuilder creates an empty builder over pit.
func NewMatchBuilder(pit *Pit) *MatchBuilder {
	return &MatchBuilder{
		pit:      pit,
		seen:     make(map[Handle]struct{}),
		touchSet: make(map[Handle]struct{}),
	}
}

// Ignite scans the row and column through b and adds every run of three or
// more same-colored matchable blocks to the result.
func (m *MatchBuilder) Ignite(b *Physical) {
	if !b.IsMatchable() {
		return
	}
	color := b.color

	left, right := b.rc, b.rc
	for m.matchAt(left.Left(), color) {
		left = left.Left()
	}
	for m.matchAt(right.Right(), color) {
		right = right.Right()
	}
	if right.C-left.C+1 >= 3 {
		for c := left.C; c <= right.C; c++ {
			m.insert(RC(b.rc.R, c))
		}
	}

	top, bottom := b.rc, b.rc
	for m.matchAt(top.Above(), color) {
		top = top.Above()
	}
	for m.matchAt(bottom.Below(), color) {
		bottom = bottom.Below()
	}
	if bottom.R-top.R+1 >= 3 {
		for r := top.R; r <= bottom.R; r++ {
			m.insert(RC(r, b.rc.C))
		}
	}
}

func (m *MatchBuilder) matchAt(rc RowCol, color Color) bool {
	o := m.pit.BlockAt(rc)
	return o != nil && o.IsMatchable() && o.color == color
}

func (m *MatchBuilder) insert(rc RowCol) {
	o := m.pit.BlockAt(rc)
	if o == nil {
		return
	}
	if _, dup := m.seen[o.handle]; dup {
		return
	}
	m.seen[o.handle] = struct{}{}
	m.matched = append(m.matched, o)
	if o.chaining {
		m.chaining = true
	}

	for _, n := range [...]RowCol{rc.Above(), rc.Below(), rc.Left(), rc.Right()} {
		if g := m.pit.GarbageAt(n); g != nil {
			m.touch(g)
		}
	}
}

func (m *MatchBuilder) touch(g *Physical) {
	if _, dup := m.touchSet[g.handle]; dup {
		return
	}
	m.touchSet[g.handle] = struct{}{}
	m.touched = append(m.touched, g)
}

// Combo returns the number of matched blocks.
func (m *MatchBuilder) Combo() int { return len(m.matched) }

// Chaining reports whether any matched block was part of a chain.
func (m *MatchBuilder) Chaining() bool { return m.chaining }

// Matched returns the matched blocks in the order they were found.
func (m *MatchBuilder) Matched() []*Physical { return m.matched }

// Touched returns the garbage adjacent to matched blocks.
func (m *MatchBuilder) Touched() []*Physical { return m.touched }

// Contains reports whether the block at rc is part of the result.
func (m *MatchBuilder) Contains(rc RowCol) bool {
	o := m.pit.BlockAt(rc)
	if o == nil {
		return false
	}
	_, ok := m.seen[o.handle]
	return ok
}
