package core

import "sort"

// Logic holds the classifier passes the director runs once per tick.
// Passes read tags set earlier in the same tick and never see tags from a
// previous one.
type Logic struct {
	pit *Pit
}

// NewLogic creates the classifier for pit.
func NewLogic(pit *Pit) *Logic {
	return &Logic{pit: pit}
}

// PitReport summarizes the whole field.
type PitReport struct {
	Chaining bool // some live block carries the chaining flag
	Breaking bool // some occupant is breaking or dissolving
	Full     bool // some resting occupant is above the top row
}

// FinishReport classifies the occupants that died this tick.
type FinishReport struct {
	DeadPhysical bool
	DeadBlock    bool
	DeadSound    bool // a dead block had a real color
	ChainStop    bool // the last chaining block died
	Died         []BlockDied
}

// HotReport aggregates the matches found this tick.
type HotReport struct {
	HaveMatch bool
	Combo     int
	Chaining  bool
	ChainStop bool // a chaining block came to rest without matching
	Matched   []*Physical
	Touched   []*Physical
}

// TriggerFalls tags every live occupant that covers origin's column and
// sits at or above origin's row as a fall candidate.
func (l *Logic) TriggerFalls(origin RowCol, chaining bool) {
	t := TagFall
	if chaining {
		t |= TagChain
	}
	for _, o := range l.pit.All() {
		if o.state == StateDead {
			continue
		}
		if origin.C < o.rc.C || origin.C >= o.rc.C+o.cols || o.Bottom() > origin.R {
			continue
		}
		o.tag(t)
	}
}

// triggerAbove runs TriggerFalls for every column of a footprint whose top
// row was at top.
func (l *Logic) triggerAbove(top RowCol, cols int, chaining bool) {
	for c := top.C; c < top.C+cols; c++ {
		l.TriggerFalls(RC(top.R, c), chaining)
	}
}

// ExaminePit reports chaining, breaking and fullness across the field.
func (l *Logic) ExaminePit() PitReport {
	var rep PitReport
	top := l.pit.Top()
	for _, o := range l.pit.All() {
		switch {
		case o.state == StateDead:
			continue
		case o.state == StateBreak:
			rep.Breaking = true
		case o.state == StateRest && o.rc.R < top:
			rep.Full = true
		}
		if o.chaining {
			rep.Chaining = true
		}
	}
	return rep
}

// ExamineFinish looks at occupants that died this tick and tags whatever
// they were holding up. Blocks above a matched block inherit the chain.
func (l *Logic) ExamineFinish() FinishReport {
	var rep FinishReport
	chainLeft := false
	chainDied := false

	for _, o := range l.pit.All() {
		if o.state != StateDead {
			if o.chaining {
				chainLeft = true
			}
			continue
		}

		rep.DeadPhysical = true
		audible := o.IsGarbage() || o.color.Matchable()
		if o.IsBlock() {
			rep.DeadBlock = true
			if audible {
				rep.DeadSound = true
				rep.Died = append(rep.Died, BlockDied{At: o.rc, Color: o.color})
			}
			if o.chaining {
				chainDied = true
			}
		}
		l.triggerAbove(o.rc, o.cols, audible)
	}

	rep.ChainStop = chainDied && !chainLeft
	return rep
}

// ConvertGarbage shrinks every dissolving garbage whose timer ran out,
// turning its bottom row into blocks. The new blocks and anything above
// them become chaining fall candidates.
func (l *Logic) ConvertGarbage() []GarbageDissolved {
	var out []GarbageDissolved
	rules := l.pit.rules

	for _, g := range l.pit.All() {
		if !g.IsGarbage() || g.state != StateBreak || !g.IsArriving() {
			continue
		}

		low := g.Bottom()
		left := g.rc.C
		anchor := g.rc
		loot := append([]Color(nil), g.loot[:g.cols]...)

		rest := l.pit.Shrink(g)
		for i, color := range loot {
			b := l.pit.SpawnBlock(color, RC(low, left+i), StateRest)
			b.tag(TagHot)
			l.TriggerFalls(b.rc, true)
		}

		remaining := 0
		if rest != nil {
			remaining = rest.rows
			if rules.DissolveAllRows {
				rest.SetState(StateBreak, rules.DissolveTime, 1)
			} else {
				rest.Rest()
			}
		}
		out = append(out, GarbageDissolved{At: anchor, Rows: remaining})
	}
	return out
}

// HandleFallers starts a fall for every tagged occupant that lost its
// support, lowest first so stacks fall together. It returns how many
// occupants started falling.
func (l *Logic) HandleFallers() int {
	rules := l.pit.rules
	order := bottomUp(l.pit.All())

	n := 0
	for _, o := range order {
		if !o.HasTag(TagFall) || !o.IsFallible() || !l.pit.CanFall(o) {
			continue
		}

		chain := o.HasTag(TagChain)
		top := o.rc
		l.pit.Fall(o)
		o.SetState(StateFall, rules.RowHeight, rules.FallSpeed)
		o.untag(TagHot)
		if o.IsBlock() && chain {
			o.chaining = true
		}
		l.triggerAbove(top, o.cols, chain)
		n++
	}
	return n
}

// HandleHots runs match detection from every hot block. Matched blocks start
// breaking and touched garbage starts dissolving. Hot blocks that found no
// match leave the chain.
func (l *Logic) HandleHots() HotReport {
	rules := l.pit.rules
	mb := NewMatchBuilder(l.pit)

	var hots []*Physical
	for _, o := range l.pit.All() {
		if o.IsBlock() && o.HasTag(TagHot) {
			hots = append(hots, o)
			mb.Ignite(o)
		}
	}

	rep := HotReport{
		HaveMatch: mb.Combo() > 0,
		Combo:     mb.Combo(),
		Chaining:  mb.Chaining(),
		Matched:   mb.Matched(),
	}

	for _, b := range mb.Matched() {
		b.SetState(StateBreak, rules.BreakTime, 1)
	}
	for _, g := range l.touchGarbage(mb.Touched()) {
		if g.state == StateRest {
			g.SetState(StateBreak, rules.DissolveTime, 1)
			rep.Touched = append(rep.Touched, g)
		}
	}

	for _, h := range hots {
		if h.chaining && (h.state == StateRest || h.state == StateLand) {
			h.chaining = false
			rep.ChainStop = true
		}
	}
	return rep
}

// touchGarbage tags the given garbage and every garbage connected to it.
func (l *Logic) touchGarbage(seed []*Physical) []*Physical {
	var out []*Physical
	queue := append([]*Physical(nil), seed...)
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		if g.HasTag(TagTouch) {
			continue
		}
		g.tag(TagTouch)
		out = append(out, g)

		for _, rc := range perimeter(g) {
			if n := l.pit.GarbageAt(rc); n != nil && !n.HasTag(TagTouch) {
				queue = append(queue, n)
			}
		}
	}
	return out
}

// perimeter lists the cells bordering a footprint on four sides.
func perimeter(o *Physical) []RowCol {
	cells := make([]RowCol, 0, 2*(o.cols+o.rows))
	for c := o.rc.C; c < o.rc.C+o.cols; c++ {
		cells = append(cells, RC(o.rc.R-1, c), RC(o.Bottom()+1, c))
	}
	for r := o.rc.R; r <= o.Bottom(); r++ {
		cells = append(cells, RC(r, o.rc.C-1), RC(r, o.rc.C+o.cols))
	}
	return cells
}

// bottomUp orders occupants by their lowest row, deepest first. Ties keep
// arena order.
func bottomUp(all []*Physical) []*Physical {
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Bottom() > all[j].Bottom()
	})
	return all
}
