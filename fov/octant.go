package fov

import "strconv"

// Octant identifies one of the eight 45-degree symmetry regions around the
// observer. Each octant is scanned with the same canonical algorithm under a
// fixed linear transform; together the eight transforms tile the plane around
// the observer with no gaps.
type Octant uint8

// NumOctants is the number of symmetry regions scanned per computation.
const NumOctants = 8

func (o Octant) String() string {
	return "octant " + strconv.Itoa(int(o))
}

// octantMultipliers maps canonical (depth, col) scan space into absolute
// offsets, one row per octant: x = depth*xd + col*xc, y = depth*yd + col*yc.
// Each row is an axis swap combined with independent sign flips.
var octantMultipliers = [NumOctants][4]int{
	{1, 0, 0, 1},   // +x primary, +y lateral
	{0, 1, 1, 0},   // +y primary, +x lateral
	{0, -1, 1, 0},  // +y primary, -x lateral
	{-1, 0, 0, 1},  // -x primary, +y lateral
	{-1, 0, 0, -1}, // -x primary, -y lateral
	{0, -1, -1, 0}, // -y primary, -x lateral
	{0, 1, -1, 0},  // -y primary, +x lateral
	{1, 0, 0, -1},  // +x primary, -y lateral
}

// Transform maps a canonical scan coordinate to absolute grid space for
// octant o, anchored at origin. It is pure and has no failure modes.
func Transform[T Signed](o Octant, origin Coord[T], depth, col T) Coord[T] {
	m := &octantMultipliers[o]
	return Coord[T]{
		X: origin.X + depth*T(m[0]) + col*T(m[1]),
		Y: origin.Y + depth*T(m[2]) + col*T(m[3]),
	}
}
