package core

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Button is a player input.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonSwap
	ButtonRaise
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonSwap:
		return "swap"
	case ButtonRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// ButtonAction distinguishes press from release.
type ButtonAction uint8

const (
	ActionPress ButtonAction = iota
	ActionRelease
)

// GameInput is one timed player input. It applies before the update that
// advances the round from Time to Time+1.
type GameInput struct {
	Time   int64
	Player int
	Button Button
	Action ButtonAction
}

// GameMeta describes a round.
type GameMeta struct {
	Players int
	Seed    int64
	Winner  int
}

// Field bundles the pit and directors of one player.
type Field struct {
	Player   int
	Pit      *Pit
	Director *BlockDirector
	Cursor   *CursorDirector
	Tally    Tally

	scoring Scoring
	gate    *gate
}

// NewField creates a field for player. sink may be nil.
func NewField(player int, rules Rules, colors ColorSupplier, sink EventSink, opts ...DirectorOption) *Field {
	g := &gate{target: sink}
	pit := NewPit(rules)
	opts = append([]DirectorOption{WithSink(g)}, opts...)
	return &Field{
		Player:   player,
		Pit:      pit,
		Director: NewBlockDirector(pit, colors, opts...),
		Cursor:   NewCursorDirector(pit, g),
		scoring:  DefaultScoring(),
		gate:     g,
	}
}

// Tick runs one full simulation step and scores it.
func (f *Field) Tick() Outcome {
	raising := f.Pit.Raising()
	bottom := f.Pit.Bottom()
	f.Pit.Update()
	out := f.Director.Update()

	raised := 0
	if raising {
		raised = f.Pit.Bottom() - bottom
	}
	f.Tally.Record(f.scoring, out, raised)
	return out
}

// Press applies a button press.
func (f *Field) Press(b Button) {
	switch b {
	case ButtonLeft:
		f.Cursor.Move(DirLeft)
	case ButtonRight:
		f.Cursor.Move(DirRight)
	case ButtonUp:
		f.Cursor.Move(DirUp)
	case ButtonDown:
		f.Cursor.Move(DirDown)
	case ButtonSwap:
		f.Director.Swap(f.Pit.Cursor())
	case ButtonRaise:
		f.Director.Raise()
	}
}

// Release applies a button release.
func (f *Field) Release(b Button) {
	if b == ButtonRaise {
		f.Pit.StopRaise()
	}
}

func (f *Field) clone(muted bool) *Field {
	g := &gate{target: f.gate.target, muted: muted}
	pit := f.Pit.Clone()
	return &Field{
		Player:   f.Player,
		Pit:      pit,
		Director: f.Director.clone(pit, g),
		Cursor:   NewCursorDirector(pit, g),
		Tally:    f.Tally,
		scoring:  f.scoring,
		gate:     g,
	}
}

// RoundOption configures a Round.
type RoundOption func(*roundConfig)

type roundConfig struct {
	sinks    func(player int) EventSink
	colors   func(player int) ColorSupplier
	logger   *log.Logger
	scoring  Scoring
	parallel bool
	intro    bool
	attacks  bool
}

// WithSinks sets a sink factory called once per player.
func WithSinks(f func(player int) EventSink) RoundOption {
	return func(c *roundConfig) { c.sinks = f }
}

// WithColors overrides the per-player color supplier.
func WithColors(f func(player int) ColorSupplier) RoundOption {
	return func(c *roundConfig) { c.colors = f }
}

// WithRoundLogger sets the logger handed to every director.
func WithRoundLogger(l *log.Logger) RoundOption {
	return func(c *roundConfig) { c.logger = l }
}

// WithParallel steps the fields of a round concurrently. Sinks shared
// between players must then be safe for concurrent use.
func WithParallel(on bool) RoundOption {
	return func(c *roundConfig) { c.parallel = on }
}

// WithScoring replaces the default point values.
func WithScoring(s Scoring) RoundOption {
	return func(c *roundConfig) { c.scoring = s }
}

// WithAttacks makes combos and chains drop garbage on the next player.
func WithAttacks() RoundOption {
	return func(c *roundConfig) { c.attacks = true }
}

// WithoutIntro starts scrolling on the first tick.
func WithoutIntro() RoundOption {
	return func(c *roundConfig) { c.intro = false }
}

// Round is the state of a whole game: one field per player plus the shared
// game time.
type Round struct {
	meta     GameMeta
	rules    Rules
	fields   []*Field
	time     int64
	over     bool
	parallel bool
	attacks  bool
}

// NewRound creates a round. Each player's colors derive from meta.Seed.
func NewRound(meta GameMeta, rules Rules, opts ...RoundOption) *Round {
	cfg := roundConfig{intro: true, scoring: DefaultScoring()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if meta.Players < 1 {
		meta.Players = 1
	}
	meta.Winner = NoOne

	r := &Round{meta: meta, rules: rules, parallel: cfg.parallel, attacks: cfg.attacks}
	for i := 0; i < meta.Players; i++ {
		var colors ColorSupplier = NewRandomColorSupplier(meta.Seed, i)
		if cfg.colors != nil {
			colors = cfg.colors(i)
		}
		var sink EventSink
		if cfg.sinks != nil {
			sink = cfg.sinks(i)
		}
		dopts := []DirectorOption{WithLogger(cfg.logger)}
		if cfg.intro {
			dopts = append(dopts, WithIntro(rules.IntroTime))
		}
		f := NewField(i, rules, colors, sink, dopts...)
		f.scoring = cfg.scoring
		r.fields = append(r.fields, f)
	}
	return r
}

// Meta returns the round description including the winner.
func (r *Round) Meta() GameMeta { return r.meta }

// Rules returns the rules of every field.
func (r *Round) Rules() Rules { return r.rules }

// Time returns the number of completed ticks.
func (r *Round) Time() int64 { return r.time }

// Fields returns the fields in player order.
func (r *Round) Fields() []*Field { return r.fields }

// Field returns one player's field.
func (r *Round) Field(player int) *Field { return r.fields[player] }

// Over reports whether any field topped out.
func (r *Round) Over() bool { return r.over }

// Winner returns the last player standing, or NoOne.
func (r *Round) Winner() int { return r.meta.Winner }

// Apply feeds one input to its player's field.
func (r *Round) Apply(in GameInput) error {
	if in.Player < 0 || in.Player >= len(r.fields) {
		return fmt.Errorf("input for player %d, round has %d", in.Player, len(r.fields))
	}
	if r.over {
		return nil
	}
	f := r.fields[in.Player]
	if in.Action == ActionRelease {
		f.Release(in.Button)
	} else {
		f.Press(in.Button)
	}
	return nil
}

// Update ticks every field once and returns their outcomes in player order.
// Once the round is over only the game time advances.
func (r *Round) Update() []Outcome {
	outs := make([]Outcome, len(r.fields))
	if r.over {
		r.time++
		return outs
	}

	if r.parallel && len(r.fields) > 1 {
		var g errgroup.Group
		for i, f := range r.fields {
			g.Go(func() error {
				outs[i] = f.Tick()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, f := range r.fields {
			outs[i] = f.Tick()
		}
	}
	r.time++
	if r.attacks && len(r.fields) > 1 {
		r.sendAttacks(outs)
	}

	alive := make([]int, 0, len(r.fields))
	for i, o := range outs {
		if !o.Over {
			alive = append(alive, i)
		}
	}
	if len(alive) < len(r.fields) {
		r.over = true
		if len(r.fields) > 1 && len(alive) == 1 {
			r.meta.Winner = alive[0]
		}
	}
	return outs
}

// sendAttacks drops the garbage each field earned on the next player in
// turn order. Fields that topped out neither send nor receive.
func (r *Round) sendAttacks(outs []Outcome) {
	for i, out := range outs {
		if out.Over {
			continue
		}
		target := r.fields[(i+1)%len(r.fields)]
		if outs[target.Player].Over {
			continue
		}
		for _, atk := range AttacksFor(out, r.rules.Cols) {
			target.Director.DropGarbage(atk.Cols, atk.Rows)
			r.fields[i].Tally.Sent += atk.Cols * atk.Rows
		}
	}
}

// Clone returns an independent copy whose fields are muted.
func (r *Round) Clone() *Round {
	return r.cloneMuted(true)
}

func (r *Round) cloneMuted(muted bool) *Round {
	c := *r
	c.fields = make([]*Field, len(r.fields))
	for i, f := range r.fields {
		c.fields[i] = f.clone(muted)
	}
	return &c
}

// SetMuted silences or restores every field's sink.
func (r *Round) SetMuted(muted bool) {
	for _, f := range r.fields {
		f.gate.muted = muted
	}
}

// Digest hashes the observable state of every field. Two rounds with the
// same digest hold the same occupants, timers, scroll and counters.
func (r *Round) Digest() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	put(r.time)
	for _, f := range r.fields {
		p := f.Pit
		put(int64(p.scroll))
		put(int64(p.chain))
		put(int64(p.panic))
		put(int64(p.recovery))
		put(int64(p.cursor.R))
		put(int64(p.cursor.C))
		put(int64(f.Tally.Score))
		for _, o := range p.All() {
			put(int64(o.kind))
			put(int64(o.rc.R))
			put(int64(o.rc.C))
			put(int64(o.state))
			put(int64(o.time))
			put(int64(o.color))
			put(int64(o.rows))
			if o.chaining {
				put(1)
			} else {
				put(0)
			}
			for _, c := range o.loot {
				put(int64(c))
			}
		}
	}
	return h.Sum64()
}
