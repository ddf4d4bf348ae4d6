// Package fov computes the set of grid cells visible from an observer using
// recursive shadowcasting over eight octants with exact rational slope
// arithmetic. The engine owns no grid storage: callers supply an opacity
// lookup and receive visibility reports through a visit sink.
package fov

// Signed is the set of signed integer types the engine's coordinates and
// slopes can be parameterized over. Narrower types trade a smaller safe
// vision radius for memory; see the overflow note on Slope.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Coord identifies a grid cell by column (X) and row (Y). Depending on
// context it is either an absolute grid position or an offset relative to the
// observer.
type Coord[T Signed] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// C is shorthand for constructing a Coord.
func C[T Signed](x, y T) Coord[T] {
	return Coord[T]{X: x, Y: y}
}

// Add returns the component-wise sum of two coordinates.
func (c Coord[T]) Add(o Coord[T]) Coord[T] {
	return Coord[T]{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns the component-wise difference of two coordinates.
func (c Coord[T]) Sub(o Coord[T]) Coord[T] {
	return Coord[T]{X: c.X - o.X, Y: c.Y - o.Y}
}
