// Package grid provides ready-made caller-side collaborators for the fov
// engine: dense per-cell opacity storage and an idempotent visibility mask.
// The engine itself never owns grid state; these types are reference
// implementations of its capability contracts for callers that do not bring
// their own.
package grid

import (
	"fmt"

	"chosenoffset.com/shadowcast/fov"
)

// Opacity is a dense row-major grid of sight-blocking flags implementing
// fov.OpacitySource. Coordinates outside the grid report as opaque, which
// satisfies the engine's out-of-range contract and keeps scans from leaking
// past the map edge.
type Opacity struct {
	width  int
	height int
	cells  []bool
}

// NewOpacity returns a fully transparent grid of the given dimensions.
func NewOpacity(width, height int) *Opacity {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Opacity{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Parse builds a grid from rune rows: '#' blocks sight, '.' is open floor,
// '@' is open floor holding the observer. The returned coordinate is the
// observer position, or (-1,-1) if the rows contain no '@'.
func Parse(rows []string) (*Opacity, fov.Coord[int], error) {
	origin := fov.C(-1, -1)
	if len(rows) == 0 {
		return NewOpacity(0, 0), origin, nil
	}
	op := NewOpacity(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != op.width {
			return nil, origin, fmt.Errorf("row %d is %d cells wide, want %d", y, len(row), op.width)
		}
		for x, ch := range row {
			switch ch {
			case '#':
				op.Set(x, y, true)
			case '@':
				origin = fov.C(x, y)
			case '.':
			default:
				return nil, origin, fmt.Errorf("unknown map rune %q at (%d, %d)", ch, x, y)
			}
		}
	}
	return op, origin, nil
}

// Width returns the grid width in cells.
func (op *Opacity) Width() int { return op.width }

// Height returns the grid height in cells.
func (op *Opacity) Height() int { return op.height }

// InBounds reports whether (x, y) lies inside the grid.
func (op *Opacity) InBounds(x, y int) bool {
	return x >= 0 && x < op.width && y >= 0 && y < op.height
}

// Set marks the cell at (x, y) as blocking sight or not. Out-of-range
// coordinates are ignored.
func (op *Opacity) Set(x, y int, opaque bool) {
	if op.InBounds(x, y) {
		op.cells[y*op.width+x] = opaque
	}
}

// Opaque implements fov.OpacitySource. Cells outside the grid are opaque.
func (op *Opacity) Opaque(c fov.Coord[int]) bool {
	if !op.InBounds(c.X, c.Y) {
		return true
	}
	return op.cells[c.Y*op.width+c.X]
}
