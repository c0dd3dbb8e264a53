package core

import "fmt"

type slot struct {
	gen uint32
	p   *Physical
}

// Pit is the occupancy store of one field. It owns every occupant in an
// arena and keeps an index from each covered cell to its occupant.
type Pit struct {
	rules Rules

	slots []slot
	free  []uint32
	index map[RowCol]Handle

	scroll      int
	speed       int
	enabled     bool
	raise       bool
	raiseTarget int
	recovery    int

	peak     int
	chain    int
	panic    int
	panicked bool

	cursor     RowCol
	cursorTime int
}

// NewPit creates an empty pit. It panics if the rules are unusable.
func NewPit(rules Rules) *Pit {
	if err := rules.Validate(); err != nil {
		panic(err)
	}
	p := &Pit{
		rules:   rules,
		index:   make(map[RowCol]Handle),
		scroll:  (1 - rules.Rows) * rules.RowHeight,
		speed:   rules.ScrollSpeed,
		enabled: true,
		panic:   rules.PanicTime,
		cursor:  RC(-rules.Rows/2, rules.Cols/2-1),
	}
	p.peak = p.Bottom() + 1
	return p
}

// Rules returns the rules the pit was created with.
func (p *Pit) Rules() Rules { return p.rules }

// Get resolves a handle. Stale handles return nil.
func (p *Pit) Get(h Handle) *Physical {
	if !h.Valid() || int(h.index) >= len(p.slots) {
		return nil
	}
	s := p.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.p
}

// At returns the occupant covering rc, or nil.
func (p *Pit) At(rc RowCol) *Physical {
	h, ok := p.index[rc]
	if !ok {
		return nil
	}
	return p.Get(h)
}

// BlockAt returns the block at rc, or nil if the cell is empty or garbage.
func (p *Pit) BlockAt(rc RowCol) *Physical {
	if o := p.At(rc); o != nil && o.IsBlock() {
		return o
	}
	return nil
}

// GarbageAt returns the garbage covering rc, or nil.
func (p *Pit) GarbageAt(rc RowCol) *Physical {
	if o := p.At(rc); o != nil && o.IsGarbage() {
		return o
	}
	return nil
}

// All returns every occupant in arena order. The order is deterministic for
// a given history of spawns and removals.
func (p *Pit) All() []*Physical {
	out := make([]*Physical, 0, len(p.slots)-len(p.free))
	for _, s := range p.slots {
		if s.p != nil {
			out = append(out, s.p)
		}
	}
	return out
}

// Len returns the number of occupants.
func (p *Pit) Len() int {
	return len(p.slots) - len(p.free)
}

// SpawnBlock places a new block at rc.
func (p *Pit) SpawnBlock(color Color, rc RowCol, state State) *Physical {
	enforce(rc.C >= 0 && rc.C < p.rules.Cols, "spawn_block", "column %d out of bounds", rc.C)
	enforce(state != StateDead, "spawn_block", "cannot spawn dead block")

	return p.insert(&Physical{
		kind:  KindBlock,
		rc:    rc,
		state: state,
		time:  1,
		speed: 1,
		color: color,
		cols:  1,
		rows:  1,
	})
}

// SpawnGarbage places a resting garbage with its top-left cell at rc.
// loot lists cols*rows colors, bottom row first.
func (p *Pit) SpawnGarbage(rc RowCol, cols, rows int, loot []Color) *Physical {
	enforce(cols > 0 && rows > 0, "spawn_garbage", "size %dx%d must be positive", cols, rows)
	enforce(rc.C >= 0 && rc.C+cols <= p.rules.Cols, "spawn_garbage", "columns %d..%d out of bounds", rc.C, rc.C+cols-1)
	enforce(len(loot) == cols*rows, "spawn_garbage", "loot has %d colors, want %d", len(loot), cols*rows)

	return p.insert(&Physical{
		kind:  KindGarbage,
		rc:    rc,
		state: StateRest,
		time:  1,
		speed: 1,
		color: ColorFake,
		cols:  cols,
		rows:  rows,
		loot:  append([]Color(nil), loot...),
	})
}

func (p *Pit) insert(o *Physical) *Physical {
	var h Handle
	if n := len(p.free); n > 0 {
		h.index = p.free[n-1]
		p.free = p.free[:n-1]
		h.gen = p.slots[h.index].gen
	} else {
		h.index = uint32(len(p.slots))
		h.gen = 1
		p.slots = append(p.slots, slot{gen: 1})
	}
	o.handle = h

	p.fillArea(o)
	p.slots[h.index].p = o
	if o.rc.R < p.peak {
		p.peak = o.rc.R
	}
	return o
}

func (p *Pit) release(o *Physical) {
	s := &p.slots[o.handle.index]
	s.p = nil
	s.gen++
	p.free = append(p.free, o.handle.index)
}

func (p *Pit) fillArea(o *Physical) {
	for _, rc := range o.Cells() {
		_, taken := p.index[rc]
		enforce(!taken, "fill_area", "attempt to block already blocked space at %v", rc)
		p.index[rc] = o.handle
	}
}

func (p *Pit) clearArea(o *Physical) {
	for _, rc := range o.Cells() {
		h, ok := p.index[rc]
		enforce(ok && h == o.handle, "clear_area", "cell %v is not held by occupant at %v", rc, o.rc)
		delete(p.index, rc)
	}
}

// CanFall reports whether every cell directly below the footprint is free
// and not below the bottom row.
func (p *Pit) CanFall(o *Physical) bool {
	row := o.Bottom() + 1
	if row > p.Bottom() {
		return false
	}
	for c := o.rc.C; c < o.rc.C+o.cols; c++ {
		if _, taken := p.index[RC(row, c)]; taken {
			return false
		}
	}
	return true
}

// Fall moves the occupant down one row.
func (p *Pit) Fall(o *Physical) {
	p.clearArea(o)
	o.rc.R++
	p.fillArea(o)
	p.refreshPeak()
}

// Swap exchanges the positions and chaining flags of two adjacent blocks.
func (p *Pit) Swap(a, b *Physical) {
	enforce(a.IsBlock() && b.IsBlock(), "swap", "only blocks can be swapped")
	enforce(p.index[a.rc] == a.handle && p.index[b.rc] == b.handle,
		"swap", "blocks to be swapped are not recognized at %v and %v", a.rc, b.rc)
	enforce(a.rc.R == b.rc.R && (a.rc.C-b.rc.C == 1 || b.rc.C-a.rc.C == 1),
		"swap", "blocks at %v and %v are not adjacent", a.rc, b.rc)

	a.rc, b.rc = b.rc, a.rc
	p.index[a.rc] = a.handle
	p.index[b.rc] = b.handle
	a.chaining, b.chaining = b.chaining, a.chaining
}

// Shrink removes the bottom row of a garbage. It returns the garbage if rows
// remain, otherwise the garbage is removed and Shrink returns nil.
func (p *Pit) Shrink(g *Physical) *Physical {
	enforce(g.IsGarbage(), "shrink", "occupant at %v is not garbage", g.rc)
	enforce(p.Get(g.handle) == g, "shrink", "garbage at %v is not in this pit", g.rc)

	low := g.Bottom()
	for c := g.rc.C; c < g.rc.C+g.cols; c++ {
		delete(p.index, RC(low, c))
	}

	if g.shrink() > 0 {
		return g
	}
	p.release(g)
	p.refreshPeak()
	return nil
}

// RemoveDead deletes every dead occupant and returns how many were removed.
func (p *Pit) RemoveDead() int {
	n := 0
	for _, s := range p.slots {
		if s.p == nil || s.p.state != StateDead {
			continue
		}
		p.clearArea(s.p)
		p.release(s.p)
		n++
	}
	if n > 0 {
		p.refreshPeak()
	}
	return n
}

// UntagAll clears the per-tick tags of every occupant.
func (p *Pit) UntagAll() {
	for _, s := range p.slots {
		if s.p != nil {
			s.p.tags = 0
		}
	}
}

// refreshPeak walks the cached peak down past rows that emptied out.
func (p *Pit) refreshPeak() {
	bottom := p.Bottom()
	for ; p.peak <= bottom; p.peak++ {
		if p.rowOccupied(p.peak) {
			return
		}
	}
}

func (p *Pit) rowOccupied(r int) bool {
	for c := 0; c < p.rules.Cols; c++ {
		if _, ok := p.index[RC(r, c)]; ok {
			return true
		}
	}
	return false
}

// Top returns the topmost fully visible row.
func (p *Pit) Top() int {
	return ceilDiv(p.scroll, p.rules.RowHeight)
}

// Bottom returns the lowest visible row. Previews wait one row below it.
func (p *Pit) Bottom() int {
	return floorDiv(p.scroll, p.rules.RowHeight) + p.rules.Rows - 1
}

// Scroll returns the scroll offset in row-height units.
func (p *Pit) Scroll() int { return p.scroll }

// ScrollSpeed returns the regular scroll speed.
func (p *Pit) ScrollSpeed() int { return p.speed }

// SetScrollSpeed changes the regular scroll speed.
func (p *Pit) SetScrollSpeed(speed int) {
	enforce(speed >= 0, "set_speed", "scroll speed %d is negative", speed)
	p.speed = speed
}

// Enabled reports whether the pit scrolls at all.
func (p *Pit) Enabled() bool { return p.enabled }

// SetEnabled turns scrolling on or off.
func (p *Pit) SetEnabled(enabled bool) { p.enabled = enabled }

// Raising reports whether a manual raise is in progress.
func (p *Pit) Raising() bool { return p.raise }

// SetRaise starts a manual raise up to the next row boundary. Raising
// cancels any recovery pause.
func (p *Pit) SetRaise() {
	if p.raise {
		return
	}
	p.raise = true
	p.raiseTarget = (floorDiv(p.scroll, p.rules.RowHeight) + 1) * p.rules.RowHeight
	p.recovery = 0
}

// StopRaise aborts a manual raise.
func (p *Pit) StopRaise() { p.raise = false }

// Recovery returns the ticks left until scrolling resumes after a match.
func (p *Pit) Recovery() int { return p.recovery }

// ReplenishRecovery pauses scrolling after a match unless the player is
// raising.
func (p *Pit) ReplenishRecovery() {
	if !p.raise {
		p.recovery = p.rules.BreakTime + p.rules.RecoveryTime
	}
}

// Peak returns the topmost row holding an occupant.
func (p *Pit) Peak() int { return p.peak }

// Chain returns the current chain counter.
func (p *Pit) Chain() int { return p.chain }

// Panic returns the ticks left before a full pit ends the game.
func (p *Pit) Panic() int { return p.panic }

// IsPanic reports whether the panic countdown is running.
func (p *Pit) IsPanic() bool { return p.panicked }

// IsFull reports whether a resting occupant has been pushed above the top
// row.
func (p *Pit) IsFull() bool {
	top := p.Top()
	for _, s := range p.slots {
		if s.p != nil && s.p.state == StateRest && s.p.rc.R < top {
			return true
		}
	}
	return false
}

// Cursor returns the left cell of the two-cell cursor.
func (p *Pit) Cursor() RowCol { return p.cursor }

// CursorTime counts updates since the pit was created, for blinking.
func (p *Pit) CursorTime() int { return p.cursorTime }

// CursorMove moves the cursor one step if it stays inside the visible area
// and reports whether it moved.
func (p *Pit) CursorMove(d Dir) bool {
	switch {
	case d == DirLeft && p.cursor.C > 0:
		p.cursor.C--
	case d == DirRight && p.cursor.C < p.rules.Cols-2:
		p.cursor.C++
	case d == DirUp && p.cursor.R > p.Top():
		p.cursor.R--
	case d == DirDown && p.cursor.R < p.Bottom():
		p.cursor.R++
	default:
		return false
	}
	return true
}

// Update advances every occupant's countdown, then scrolls and keeps the
// cursor inside the visible area.
func (p *Pit) Update() {
	for _, s := range p.slots {
		if s.p != nil {
			s.p.update()
		}
	}

	switch {
	case p.recovery > 0:
		p.recovery--
	case !p.enabled:
	case p.raise:
		p.scroll += p.rules.RaiseSpeed
		if p.scroll >= p.raiseTarget {
			p.scroll = p.raiseTarget
			p.raise = false
		}
	default:
		p.scroll += p.speed
	}

	if top := p.Top(); p.cursor.R < top {
		p.cursor.R = top
	}
	p.cursorTime++
}

// Clone returns a deep copy of the pit.
func (p *Pit) Clone() *Pit {
	c := *p
	c.slots = make([]slot, len(p.slots))
	for i, s := range p.slots {
		c.slots[i].gen = s.gen
		if s.p != nil {
			c.slots[i].p = s.p.clone()
		}
	}
	c.free = append([]uint32(nil), p.free...)
	c.index = make(map[RowCol]Handle, len(p.index))
	for rc, h := range p.index {
		c.index[rc] = h
	}
	return &c
}

// Validate checks that the index and the occupant collection agree and
// that every settled occupant has a running countdown.
func (p *Pit) Validate() error {
	cells := 0
	for _, s := range p.slots {
		o := s.p
		if o == nil {
			continue
		}
		if o.rc.C < 0 || o.rc.C+o.cols > p.rules.Cols {
			return fmt.Errorf("occupant at %v exceeds columns", o.rc)
		}
		if o.state.timed() && o.Remaining() < 1 {
			return fmt.Errorf("occupant at %v in %v has no time remaining", o.rc, o.state)
		}
		for _, rc := range o.Cells() {
			if h, ok := p.index[rc]; !ok || h != o.handle {
				return fmt.Errorf("cell %v of occupant at %v is not indexed to it", rc, o.rc)
			}
			cells++
		}
	}
	if cells != len(p.index) {
		return fmt.Errorf("index holds %d cells, occupants cover %d", len(p.index), cells)
	}
	if p.chain < 0 {
		return fmt.Errorf("chain counter %d is negative", p.chain)
	}
	return nil
}
