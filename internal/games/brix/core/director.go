package core

import (
	"io"

	"github.com/charmbracelet/log"
)

// Outcome summarizes one director update.
type Outcome struct {
	Match    bool
	Combo    int
	Chaining bool

	ChainFinished bool
	Chain         int // counter of the chain that finished

	Died      int // colored blocks that finished breaking
	Dissolved int // garbage rows converted to blocks

	Full     bool
	Breaking bool
	Panic    bool
	Over     bool
}

// DirectorOption configures a BlockDirector.
type DirectorOption func(*BlockDirector)

// WithSink sets the event sink.
func WithSink(s EventSink) DirectorOption {
	return func(d *BlockDirector) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) DirectorOption {
	return func(d *BlockDirector) {
		if l != nil {
			d.log = l
		}
	}
}

// WithIntro holds scrolling for the first n updates.
func WithIntro(n int) DirectorOption {
	return func(d *BlockDirector) {
		d.intro = n
	}
}

// BlockDirector runs the per-tick sequence for one pit: preview rows,
// arrivals, the classifier passes, chain and panic bookkeeping and events.
type BlockDirector struct {
	pit    *Pit
	logic  *Logic
	colors ColorSupplier
	sink   EventSink
	log    *log.Logger

	previewRow  int
	chainActive bool
	over        bool
	intro       int
	ticks       int
	garbageSide int
}

// NewBlockDirector creates a director for pit and spawns the first preview
// row below the visible area.
func NewBlockDirector(pit *Pit, colors ColorSupplier, opts ...DirectorOption) *BlockDirector {
	d := &BlockDirector{
		pit:    pit,
		logic:  NewLogic(pit),
		colors: colors,
		sink:   NopSink{},
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.previewRow = pit.Bottom() + 1
	d.spawnPreviews(d.previewRow)
	if d.intro > 0 {
		pit.SetEnabled(false)
	}
	return d
}

// Pit returns the directed pit.
func (d *BlockDirector) Pit() *Pit { return d.pit }

// Over reports whether the field topped out.
func (d *BlockDirector) Over() bool { return d.over }

// IsPanic reports whether the panic countdown is running.
func (d *BlockDirector) IsPanic() bool { return d.pit.IsPanic() }

// Ticks returns how many updates ran.
func (d *BlockDirector) Ticks() int { return d.ticks }

// Swap starts swapping the block at rc with its right neighbor. An empty
// side gets a placeholder block so a single block can be pushed sideways.
// It returns false and changes nothing when the swap is not allowed.
func (d *BlockDirector) Swap(rc RowCol) bool {
	rules := d.pit.rules
	if d.over || rc.C < 0 || rc.C+1 >= rules.Cols || rc.R > d.pit.Bottom() {
		return false
	}

	left := d.pit.At(rc)
	right := d.pit.At(rc.Right())
	if left == nil && right == nil {
		return false
	}
	if left != nil && !canSwap(left, StateSwapLeft) {
		return false
	}
	if right != nil && !canSwap(right, StateSwapRight) {
		return false
	}

	if left == nil {
		left = d.pit.SpawnBlock(ColorFake, rc, StateRest)
	}
	if right == nil {
		right = d.pit.SpawnBlock(ColorFake, rc.Right(), StateRest)
	}
	left.SetState(StateSwapRight, rules.SwapTime, 1)
	right.SetState(StateSwapLeft, rules.SwapTime, 1)
	d.pit.Swap(left, right)

	d.sink.Fire(SwapBegun{At: rc})
	return true
}

// canSwap reports whether b may move while not already moving in the
// opposite direction.
func canSwap(b *Physical, opposite State) bool {
	return b.IsSwappable() && b.color != ColorFake && b.state != opposite
}

// Raise scrolls the field up to the next row boundary at raise speed.
func (d *BlockDirector) Raise() bool {
	if d.over || d.pit.IsFull() {
		return false
	}
	d.pit.SetRaise()
	return true
}

// DropGarbage spawns a falling garbage above the stack, alternating sides.
func (d *BlockDirector) DropGarbage(cols, rows int) *Physical {
	rules := d.pit.rules
	cols = min(max(cols, 1), rules.Cols)
	rows = max(rows, 1)

	col := 0
	if d.garbageSide%2 == 1 {
		col = rules.Cols - cols
	}
	d.garbageSide++

	top := min(d.pit.Peak(), d.pit.Top()) - rows
	loot := make([]Color, cols*rows)
	for i := range loot {
		loot[i] = d.colors.NextEmerge()
	}

	g := d.pit.SpawnGarbage(RC(top, col), cols, rows, loot)
	g.SetState(StateFall, rules.RowHeight, rules.FallSpeed)
	d.log.Debug("garbage dropped", "at", g.rc, "cols", cols, "rows", rows)
	return g
}

// SetupStack fills the lowest rows of the visible area with resting blocks
// that form no match, then rerolls the preview row against the new stack.
func (d *BlockDirector) SetupStack(rows int) {
	bottom := d.pit.Bottom()
	for r := bottom - rows + 1; r <= bottom; r++ {
		d.spawnRow(r, StateRest)
	}

	for c := 0; c < d.pit.rules.Cols; c++ {
		if b := d.pit.BlockAt(RC(d.previewRow, c)); b != nil && b.state == StatePreview {
			b.SetState(StateDead, 1, 1)
		}
	}
	d.pit.RemoveDead()
	d.spawnPreviews(d.previewRow)
}

func (d *BlockDirector) spawnPreviews(row int) {
	d.spawnRow(row, StatePreview)
}

func (d *BlockDirector) spawnRow(row int, state State) {
	for c := 0; c < d.pit.rules.Cols; c++ {
		color := d.colors.NextSpawn()
		for tries := 0; tries < 2*PaletteSize && d.wouldMatch(RC(row, c), color); tries++ {
			color = d.colors.NextSpawn()
		}
		d.pit.SpawnBlock(color, RC(row, c), state)
	}
}

// wouldMatch reports whether color at rc would complete a run with the two
// blocks to its left or the two blocks above it.
func (d *BlockDirector) wouldMatch(rc RowCol, color Color) bool {
	same := func(rc RowCol) bool {
		b := d.pit.BlockAt(rc)
		return b != nil && b.color == color
	}
	return (same(rc.Left()) && same(rc.Left().Left())) ||
		(same(rc.Above()) && same(rc.Above().Above()))
}

// activatePreviews turns preview rows that scrolled into view into live
// blocks and queues the next preview row.
func (d *BlockDirector) activatePreviews() {
	for d.pit.Bottom() >= d.previewRow {
		for c := 0; c < d.pit.rules.Cols; c++ {
			b := d.pit.BlockAt(RC(d.previewRow, c))
			if b != nil && b.state == StatePreview {
				b.Rest()
				b.tag(TagHot)
			}
		}
		d.previewRow++
		d.spawnPreviews(d.previewRow)
	}
}

// handleArrivals settles falling and swapping occupants whose timer ran out.
func (d *BlockDirector) handleArrivals() {
	for _, o := range bottomUp(d.pit.All()) {
		if !o.IsArriving() {
			continue
		}
		switch o.state {
		case StateFall:
			d.arriveFall(o)
		case StateSwapLeft, StateSwapRight:
			d.arriveSwap(o)
		}
	}
}

func (d *BlockDirector) arriveFall(o *Physical) {
	rules := d.pit.rules
	if d.pit.CanFall(o) {
		top := o.rc
		d.pit.Fall(o)
		o.ContinueState(rules.RowHeight)
		d.logic.triggerAbove(top, o.cols, false)
		return
	}

	if o.IsBlock() {
		o.SetState(StateLand, rules.LandTime, 1)
		o.tag(TagHot)
		return
	}
	o.Rest()
}

func (d *BlockDirector) arriveSwap(b *Physical) {
	rules := d.pit.rules
	if b.color == ColorFake {
		b.SetState(StateDead, 1, 1)
		return
	}

	if d.pit.CanFall(b) {
		from := b.rc
		d.pit.Fall(b)
		b.SetState(StateFall, rules.RowHeight, rules.FallSpeed)
		d.logic.TriggerFalls(from, false)
		return
	}
	b.Rest()
	b.tag(TagHot)
}

// Update runs one director tick. Call it right after Pit.Update.
func (d *BlockDirector) Update() Outcome {
	if d.over {
		return Outcome{Over: true, Full: true, Panic: true}
	}
	d.ticks++

	d.pit.UntagAll()
	d.activatePreviews()
	d.handleArrivals()

	fin := d.logic.ExamineFinish()
	d.pit.RemoveDead()
	dissolved := d.logic.ConvertGarbage()
	d.logic.HandleFallers()
	hot := d.logic.HandleHots()

	out := Outcome{
		Match:     hot.HaveMatch,
		Combo:     hot.Combo,
		Chaining:  hot.Chaining,
		Died:      len(fin.Died),
		Dissolved: len(dissolved),
	}

	for _, e := range fin.Died {
		d.sink.Fire(e)
	}
	for _, e := range dissolved {
		d.sink.Fire(e)
	}
	if hot.HaveMatch {
		d.chainActive = true
		if hot.Chaining {
			d.pit.chain++
		}
		d.pit.ReplenishRecovery()
		d.sink.Fire(MatchResolved{Combo: hot.Combo, Chaining: hot.Chaining})
	}

	// examined last so that occupants which started falling this tick
	// already count as chaining
	rep := d.logic.ExaminePit()
	if d.chainActive && !rep.Chaining && !rep.Breaking {
		out.ChainFinished = true
		out.Chain = d.pit.chain
		d.pit.chain = 0
		d.chainActive = false
		if out.Chain > 0 {
			d.log.Debug("chain finished", "counter", out.Chain)
		}
		d.sink.Fire(ChainFinished{Counter: out.Chain})
	}

	d.updatePanic(rep)
	d.pit.SetEnabled(!rep.Full && d.ticks > d.intro)

	out.Full = rep.Full
	out.Breaking = rep.Breaking
	out.Panic = d.pit.panicked
	out.Over = d.over
	return out
}

// updatePanic arms the countdown when the field fills and counts it down on
// every later full tick, clearing or not.
func (d *BlockDirector) updatePanic(rep PitReport) {
	p := d.pit
	switch {
	case !rep.Full:
		p.panicked = false
		p.panic = p.rules.PanicTime
	case !p.panicked:
		p.panicked = true
		p.panic = p.rules.PanicTime
		d.log.Debug("panic", "ticks", p.panic)
	default:
		p.panic--
		if p.panic <= 0 {
			p.panic = 0
			d.over = true
			d.log.Debug("game over", "tick", d.ticks)
		}
	}
}

// clone copies the director onto a cloned pit. The copy gets its own sink.
func (d *BlockDirector) clone(pit *Pit, sink EventSink) *BlockDirector {
	c := *d
	c.pit = pit
	c.logic = NewLogic(pit)
	c.colors = d.colors.Clone()
	c.sink = sink
	return &c
}
