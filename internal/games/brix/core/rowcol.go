package core

import "fmt"

// RowCol addresses one cell of a field.
// Columns run 0..Cols-1 left to right. Row 0 is the starting baseline and
// rows grow downward; negative rows extend upward without bound.
type RowCol struct {
	R int
	C int
}

// RC is a convenience constructor for RowCol.
func RC(r, c int) RowCol {
	return RowCol{R: r, C: c}
}

// String returns a string representation of the coordinate.
func (rc RowCol) String() string {
	return fmt.Sprintf("(%d,%d)", rc.R, rc.C)
}

// Add returns a new RowCol offset by (dr, dc).
func (rc RowCol) Add(dr, dc int) RowCol {
	return RowCol{R: rc.R + dr, C: rc.C + dc}
}

// Above returns the cell one row up.
func (rc RowCol) Above() RowCol { return rc.Add(-1, 0) }

// Below returns the cell one row down.
func (rc RowCol) Below() RowCol { return rc.Add(1, 0) }

// Left returns the cell one column left.
func (rc RowCol) Left() RowCol { return rc.Add(0, -1) }

// Right returns the cell one column right.
func (rc RowCol) Right() RowCol { return rc.Add(0, 1) }

// Dir is a cursor movement direction.
type Dir uint8

const (
	DirNone Dir = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ceilDiv divides rounding toward positive infinity.
func ceilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
