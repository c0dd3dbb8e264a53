package brix

import (
	"fmt"

	platformcore "github.com/vovakirdan/brix-arcade/internal/core"
	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
)

// Each field column is three characters wide: the glyph sits in the middle
// and the cursor brackets take the outer slots.
const cellW = 3

// Visual characters for rendering
const (
	GarbageChar  = '▒'
	DissolveChar = '░'
	BreakChar    = '✶'
)

var glyphs = map[core.Color]rune{
	core.ColorBlue:   '◆',
	core.ColorRed:    '♥',
	core.ColorYellow: '★',
	core.ColorGreen:  '●',
	core.ColorPurple: '▲',
	core.ColorOrange: '■',
}

var palette = map[core.Color]platformcore.Color{
	core.ColorBlue:   platformcore.ColorBlue,
	core.ColorRed:    platformcore.ColorRed,
	core.ColorYellow: platformcore.ColorYellow,
	core.ColorGreen:  platformcore.ColorGreen,
	core.ColorPurple: platformcore.ColorMagenta,
	core.ColorOrange: platformcore.ColorOrange,
}

// FieldSize returns the on-screen width and height of a field box.
func FieldSize(cols, rows int) (w, h int) {
	return cols*cellW + 2, rows + 2
}

// DrawField draws v inside a box whose top-left corner is (x, y).
func DrawField(dst *platformcore.Screen, x, y int, v FieldView) {
	w, h := FieldSize(v.Cols, v.Rows())

	border := platformcore.ColorGray
	switch {
	case v.Over:
		border = platformcore.ColorDim
	case v.Panic && v.Time/4%2 == 0:
		border = platformcore.ColorRed
	}
	dst.DrawBox(platformcore.NewRect(x, y, w, h), border)

	blink := v.Time/4%2 == 0
	last := v.Rows() - 1
	for r, row := range v.Cells {
		for c, cell := range row {
			cx := x + 1 + c*cellW
			cy := y + 1 + r
			if r == last {
				drawPreview(dst, cx, cy, cell)
				continue
			}
			drawCell(dst, cx, cy, cell, blink)
		}
	}

	if v.Over {
		return
	}
	cur := v.Cursor
	if cur.R >= 0 && cur.R < last {
		cy := y + 1 + cur.R
		dst.SetColored(x+1+cur.C*cellW, cy, '[', platformcore.ColorWhite)
		dst.SetColored(x+1+(cur.C+1)*cellW+cellW-1, cy, ']', platformcore.ColorWhite)
	}
}

func drawCell(dst *platformcore.Screen, x, y int, cell CellView, blink bool) {
	if !cell.Filled {
		return
	}
	if cell.Garbage {
		ch := GarbageChar
		if cell.State == core.StateBreak && blink {
			ch = DissolveChar
		}
		for i := range cellW {
			dst.SetColored(x+i, y, ch, platformcore.ColorGray)
		}
		return
	}

	ch := glyphs[cell.Color]
	if cell.State == core.StateBreak && blink {
		ch = BreakChar
	}
	dst.SetColored(x+1, y, ch, palette[cell.Color])
}

func drawPreview(dst *platformcore.Screen, x, y int, cell CellView) {
	if cell.Filled && !cell.Garbage {
		dst.SetColored(x+1, y, glyphs[cell.Color], platformcore.ColorDim)
	}
}

// drawStats writes the score panel of one field starting at (x, y) and
// returns the next free row.
func drawStats(dst *platformcore.Screen, x, y int, v FieldView) int {
	lines := []string{
		fmt.Sprintf("Score  %d", v.Tally.Score),
		fmt.Sprintf("Combo  %d", v.Tally.MaxCombo),
		fmt.Sprintf("Chain  %d", v.Tally.MaxChain),
	}
	if v.Tally.Sent > 0 {
		lines = append(lines, fmt.Sprintf("Sent   %d", v.Tally.Sent))
	}
	for _, l := range lines {
		dst.DrawText(x, y, l)
		y++
	}
	if v.Panic && !v.Over {
		dst.DrawTextColored(x, y, fmt.Sprintf("PANIC  %d", v.PanicLeft), platformcore.ColorRed)
		y++
	}
	if v.Chain > 1 && !v.Over {
		dst.DrawTextColored(x, y, fmt.Sprintf("%dx CHAIN", v.Chain), platformcore.ColorYellow)
		y++
	}
	return y
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *platformcore.Screen, title, subtitle string) {
	w := max(len([]rune(title)), len([]rune(subtitle))) + 4
	h := 5
	x := (dst.Width() - w) / 2
	y := (dst.Height() - h) / 2

	for dy := range h {
		for dx := range w {
			dst.Set(x+dx, y+dy, ' ')
		}
	}
	dst.DrawBox(platformcore.NewRect(x, y, w, h), platformcore.ColorWhite)
	dst.DrawText(x+(w-len([]rune(title)))/2, y+1, title)
	dst.DrawText(x+(w-len([]rune(subtitle)))/2, y+3, subtitle)
}
