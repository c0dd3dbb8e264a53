package core

// Event is a notification emitted by a field. The set of events is closed.
type Event interface {
	brixEvent()
}

// CursorMoved is emitted for every directional input, moved or not.
type CursorMoved struct {
	Dir   Dir
	At    RowCol
	Moved bool
}

func (CursorMoved) brixEvent() {}

// SwapBegun is emitted when a swap starts at the given left cell.
type SwapBegun struct {
	At RowCol
}

func (SwapBegun) brixEvent() {}

// MatchResolved is emitted once per tick in which blocks matched.
type MatchResolved struct {
	Combo    int
	Chaining bool
}

func (MatchResolved) brixEvent() {}

// ChainFinished is emitted when a sequence of matches ends. Counter is the
// number of chaining matches in it, zero for a lone match.
type ChainFinished struct {
	Counter int
}

func (ChainFinished) brixEvent() {}

// BlockDied is emitted for each colored block that finished breaking.
// Placeholder blocks die silently.
type BlockDied struct {
	At    RowCol
	Color Color
}

func (BlockDied) brixEvent() {}

// GarbageDissolved is emitted each time a garbage loses a row. Rows is what
// is left of it.
type GarbageDissolved struct {
	At   RowCol
	Rows int
}

func (GarbageDissolved) brixEvent() {}

// EventSink receives events synchronously during a tick. Implementations
// must not mutate the field that emitted them.
type EventSink interface {
	Fire(e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(e Event)

// Fire implements EventSink.
func (f SinkFunc) Fire(e Event) { f(e) }

// NopSink discards every event.
type NopSink struct{}

// Fire implements EventSink.
func (NopSink) Fire(Event) {}

// Hub fans events out to several sinks in registration order.
type Hub struct {
	sinks []EventSink
}

// NewHub creates a hub over sinks. Nil sinks are skipped.
func NewHub(sinks ...EventSink) *Hub {
	h := &Hub{}
	for _, s := range sinks {
		h.Add(s)
	}
	return h
}

// Add registers another sink.
func (h *Hub) Add(s EventSink) {
	if s != nil {
		h.sinks = append(h.sinks, s)
	}
}

// Fire implements EventSink.
func (h *Hub) Fire(e Event) {
	for _, s := range h.sinks {
		s.Fire(e)
	}
}

// gate forwards events unless muted. Rewound rounds replay ticks the
// listeners already saw, so they run muted until they catch up.
type gate struct {
	target EventSink
	muted  bool
}

func (g *gate) Fire(e Event) {
	if !g.muted && g.target != nil {
		g.target.Fire(e)
	}
}
