package brix

import (
	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

// CellView is what one cell of a field shows.
type CellView struct {
	Filled  bool
	Garbage bool
	Color   core.Color
	State   core.State
}

// FieldView is an immutable copy of the visible part of a field. It holds
// plain values only, so it can cross goroutines inside a snapshot.
type FieldView struct {
	Cols      int
	Cells     [][]CellView // visible rows top to bottom, the preview row last
	Cursor    core.RowCol  // row relative to Cells
	Time      int          // cursor clock, drives blinking
	Chain     int
	Panic     bool
	PanicLeft int
	Over      bool
	Tally     core.Tally
}

// ViewField copies the visible rows of f, starting at the partially
// scrolled-in top row, plus the preview row below the bottom.
func ViewField(f *core.Field, over bool) FieldView {
	p := f.Pit
	rules := p.Rules()
	first := p.Bottom() - rules.Rows + 1

	v := FieldView{
		Cols:      rules.Cols,
		Cells:     make([][]CellView, rules.Rows+1),
		Cursor:    core.RC(p.Cursor().R-first, p.Cursor().C),
		Time:      p.CursorTime(),
		Chain:     p.Chain(),
		Panic:     p.IsPanic(),
		PanicLeft: p.Panic(),
		Over:      over,
		Tally:     f.Tally,
	}
	for i := range v.Cells {
		row := make([]CellView, rules.Cols)
		for c := range row {
			o := p.At(core.RC(first+i, c))
			if o == nil {
				continue
			}
			row[c] = CellView{
				Filled:  o.IsGarbage() || o.Color().Matchable(),
				Garbage: o.IsGarbage(),
				Color:   o.Color(),
				State:   o.State(),
			}
		}
		v.Cells[i] = row
	}
	return v
}

// Rows returns the number of rows including the preview row.
func (v FieldView) Rows() int { return len(v.Cells) }
