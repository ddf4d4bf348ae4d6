package fov

// Slope is an exact rational angle boundary, measured as lateral offset over
// depth within one octant. The denominator is strictly positive by
// construction, so comparisons reduce to a single cross-multiplication with
// no sign correction and no floating-point rounding.
//
// Overflow note: comparing two slopes forms products of a numerator and a
// denominator. For a scan of radius R both magnitudes stay within 2R+1, so
// the chosen type T must hold roughly 4*R*R. This is a documented
// precondition, not a runtime check; with int8 the safe radius is about 5,
// with int16 about 90, with int32 about 23000.
type Slope[T Signed] struct {
	Num T `json:"num"`
	Den T `json:"den"`
}

// LeadingEdge returns the slope from the observer to the near edge of the
// cell at (depth, col): (2*col - 1) / (2*depth).
func LeadingEdge[T Signed](depth, col T) Slope[T] {
	return Slope[T]{Num: 2*col - 1, Den: 2 * depth}
}

// TrailingEdge returns the slope from the observer to the far edge of the
// cell at (depth, col): (2*col + 1) / (2*depth). The trailing edge of one
// cell is the leading edge of the next cell in the same row.
func TrailingEdge[T Signed](depth, col T) Slope[T] {
	return Slope[T]{Num: 2*col + 1, Den: 2 * depth}
}

// Less reports whether s is strictly below o.
func (s Slope[T]) Less(o Slope[T]) bool {
	return s.Num*o.Den < o.Num*s.Den
}

// LessEq reports whether s is below or equal to o.
func (s Slope[T]) LessEq(o Slope[T]) bool {
	return s.Num*o.Den <= o.Num*s.Den
}

// Greater reports whether s is strictly above o.
func (s Slope[T]) Greater(o Slope[T]) bool {
	return s.Num*o.Den > o.Num*s.Den
}
