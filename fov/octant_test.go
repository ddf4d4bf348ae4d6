package fov

import "testing"

func TestTransformAnchoredAtOrigin(t *testing.T) {
	origin := C(10, 20)
	tests := []struct {
		o          Octant
		depth, col int
		want       Coord[int]
	}{
		{0, 1, 0, C(11, 20)},
		{0, 2, 1, C(12, 21)},
		{1, 2, 1, C(11, 22)},
		{2, 2, 1, C(9, 22)},
		{3, 3, 0, C(7, 20)},
		{4, 1, 1, C(9, 19)},
		{5, 2, 2, C(8, 18)},
		{6, 3, 1, C(11, 17)},
		{7, 2, 0, C(12, 20)},
	}
	for _, tt := range tests {
		if got := Transform(tt.o, origin, tt.depth, tt.col); got != tt.want {
			t.Errorf("Transform(%v, %v, %d, %d) = %v, want %v", tt.o, origin, tt.depth, tt.col, got, tt.want)
		}
	}
}

// TestTransformTilesPlane checks that the eight octants together cover every
// cell around the observer, with shared cells only on the axes and diagonals.
func TestTransformTilesPlane(t *testing.T) {
	const radius = 5
	origin := C(0, 0)
	counts := make(map[Coord[int]]int)
	for o := Octant(0); o < NumOctants; o++ {
		for depth := 1; depth <= radius; depth++ {
			for col := 0; col <= depth; col++ {
				counts[Transform(o, origin, depth, col)]++
			}
		}
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := C(dx, dy)
			want := 1
			if dx == 0 || dy == 0 || dx == dy || dx == -dy {
				// Axis and diagonal cells sit on the boundary between
				// two adjoining octants and belong to both.
				want = 2
			}
			if counts[c] != want {
				t.Errorf("cell %v covered %d times, want %d", c, counts[c], want)
			}
		}
	}
	if counts[origin] != 0 {
		t.Errorf("octant scans covered the origin %d times, want 0", counts[origin])
	}
}
