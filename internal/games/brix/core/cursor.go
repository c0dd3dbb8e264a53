package core

// CursorDirector turns directional input into cursor moves on one pit.
type CursorDirector struct {
	pit  *Pit
	sink EventSink
}

// NewCursorDirector creates a cursor director. A nil sink discards events.
func NewCursorDirector(pit *Pit, sink EventSink) *CursorDirector {
	if sink == nil {
		sink = NopSink{}
	}
	return &CursorDirector{pit: pit, sink: sink}
}

// Move moves the cursor one step. Every direction other than DirNone is
// reported to the sink, including moves blocked by the field edge.
func (c *CursorDirector) Move(d Dir) {
	if d == DirNone {
		return
	}
	moved := c.pit.CursorMove(d)
	c.sink.Fire(CursorMoved{Dir: d, At: c.pit.Cursor(), Moved: moved})
}
