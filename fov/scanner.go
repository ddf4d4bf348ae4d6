package fov

// OpacitySource answers whether a cell blocks sight. It is the engine's only
// view of the caller's grid. Implementations must return a safe answer for
// any coordinate, including ones outside the caller's logical bounds;
// reporting out-of-range cells as opaque keeps the scan from treating unknown
// space as open.
type OpacitySource[T Signed] interface {
	Opaque(c Coord[T]) bool
}

// OpacityFunc adapts a plain function to an OpacitySource.
type OpacityFunc[T Signed] func(c Coord[T]) bool

// Opaque calls f(c).
func (f OpacityFunc[T]) Opaque(c Coord[T]) bool { return f(c) }

// VisitSink receives one report per (octant, visible cell) pair. The same
// absolute cell may be reported from two adjoining octants when it lies on an
// axis or diagonal, so implementations must merge duplicates idempotently.
// depth is the distance from the observer along the octant's primary axis;
// any derived metric (Euclidean distance, light falloff) is the caller's to
// compute.
type VisitSink[T Signed] interface {
	See(c Coord[T], depth T, o Octant)
}

// VisitFunc adapts a plain function to a VisitSink.
type VisitFunc[T Signed] func(c Coord[T], depth T, o Octant)

// See calls f(c, depth, o).
func (f VisitFunc[T]) See(c Coord[T], depth T, o Octant) { f(c, depth, o) }

// rowState is one unit of scan work: a single row of one octant, bounded by
// two slopes. Frames live on the Scanner's explicit work stack instead of the
// native call stack, so large radii cannot exhaust it.
type rowState[T Signed] struct {
	depth T
	low   Slope[T]
	high  Slope[T]
}

// Scanner runs shadowcasting computations, reusing its work stack across
// calls. A Scanner is not safe for concurrent use: overlapping Compute calls
// need separate instances, and the supplied capabilities must not re-enter
// Compute on the same instance.
type Scanner[T Signed] struct {
	stack []rowState[T]
}

// NewScanner returns a Scanner ready for use. The zero value is also valid.
func NewScanner[T Signed]() *Scanner[T] {
	return &Scanner[T]{}
}

// Compute reports every cell visible from origin within radius, invoking
// sink once per (octant, visible cell) pair. The observer's own cell is
// always reported first, at depth 0 with octant 0, regardless of its opacity.
// Cells at depth exactly radius are included; deeper cells are never looked
// up or reported. A negative radius behaves like zero.
//
// Compute performs no I/O and has no error states; a panic from src or sink
// propagates unchanged.
func (s *Scanner[T]) Compute(origin Coord[T], radius T, src OpacitySource[T], sink VisitSink[T]) {
	sink.See(origin, 0, 0)
	if radius < 1 {
		return
	}
	for o := Octant(0); o < NumOctants; o++ {
		s.stack = s.stack[:0]
		s.stack = append(s.stack, rowState[T]{
			depth: 1,
			low:   Slope[T]{Num: 0, Den: 1},
			high:  Slope[T]{Num: 1, Den: 1},
		})
		for len(s.stack) > 0 {
			r := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.scanRow(o, origin, radius, r, src, sink)
		}
	}
}

// Compute runs a one-off computation with a throwaway Scanner.
func Compute[T Signed](origin Coord[T], radius T, src OpacitySource[T], sink VisitSink[T]) {
	NewScanner[T]().Compute(origin, radius, src, sink)
}

// scanRow visits every cell of one row whose span intersects [r.low, r.high]
// and pushes the child rows left open by obstructions. Both bounds are
// inclusive: a cell exactly on a slope boundary is visible, which keeps
// shadow edges from under-revealing cells adjacent to a wall.
func (s *Scanner[T]) scanRow(o Octant, origin Coord[T], radius T, r rowState[T], src OpacitySource[T], sink VisitSink[T]) {
	minCol := minColumn(r.depth, r.low)
	maxCol := maxColumn(r.depth, r.high)

	mark := len(s.stack)
	low := r.low
	prevOpaque := false
	for col := minCol; col <= maxCol; col++ {
		c := Transform(o, origin, r.depth, col)
		opaque := src.Opaque(c)
		sink.See(c, r.depth, o)

		if opaque {
			if !prevOpaque && r.depth < radius {
				// A wall begins here: the span still open below it
				// continues one row deeper, capped at this cell's
				// leading edge. For the row's first cell that span is
				// empty and push discards it.
				s.push(rowState[T]{depth: r.depth + 1, low: low, high: LeadingEdge(r.depth, col)})
			}
		} else if prevOpaque {
			// The wall run ended; the open span resumes at its far
			// boundary, the leading edge of this cell.
			low = LeadingEdge(r.depth, col)
		}
		prevOpaque = opaque
	}

	// Row ended in the open: the remaining span continues deeper.
	if !prevOpaque && r.depth < radius {
		s.push(rowState[T]{depth: r.depth + 1, low: low, high: r.high})
	}

	// Children were appended left to right; reverse them so the stack pops
	// the lowest span first, matching the depth-first order of the
	// recursive formulation.
	for i, j := mark, len(s.stack)-1; i < j; i, j = i+1, j-1 {
		s.stack[i], s.stack[j] = s.stack[j], s.stack[i]
	}
}

// push discards frames whose span has closed (low above high).
func (s *Scanner[T]) push(r rowState[T]) {
	if r.low.LessEq(r.high) {
		s.stack = append(s.stack, r)
	}
}

// minColumn returns the first column whose trailing edge lies on or above
// low, clamped at the octant's primary axis.
func minColumn[T Signed](depth T, low Slope[T]) T {
	// smallest col with (2*col+1)*low.Den >= 2*depth*low.Num
	col := ceilDiv(2*depth*low.Num-low.Den, 2*low.Den)
	if col < 0 {
		col = 0
	}
	return col
}

// maxColumn returns the last column whose leading edge lies on or below
// high, clamped at the octant's diagonal.
func maxColumn[T Signed](depth T, high Slope[T]) T {
	// largest col with (2*col-1)*high.Den <= 2*depth*high.Num
	col := floorDiv(2*depth*high.Num+high.Den, 2*high.Den)
	if col > depth {
		col = depth
	}
	return col
}

// ceilDiv computes ceil(a/b) for b > 0.
func ceilDiv[T Signed](a, b T) T {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// floorDiv computes floor(a/b) for b > 0.
func floorDiv[T Signed](a, b T) T {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
