package fov

import (
	"strings"
	"testing"
)

// fixture is a small caller-owned grid for tests, parsed from rune rows the
// way map files are written: '#' blocks sight, '.' is open floor, '@' is
// open floor holding the observer. Cells outside the fixture are opaque.
type fixture struct {
	width, height int
	walls         map[Coord[int]]bool
	origin        Coord[int]
}

func parseFixture(t *testing.T, rows []string) *fixture {
	t.Helper()
	f := &fixture{
		width:  len(rows[0]),
		height: len(rows),
		walls:  make(map[Coord[int]]bool),
		origin: C(-1, -1),
	}
	for y, row := range rows {
		for x, ch := range row {
			switch ch {
			case '#':
				f.walls[C(x, y)] = true
			case '@':
				f.origin = C(x, y)
			case '.':
			default:
				t.Fatalf("unknown fixture rune %q", ch)
			}
		}
	}
	if f.origin == C(-1, -1) {
		t.Fatal("fixture has no observer")
	}
	return f
}

func (f *fixture) Opaque(c Coord[int]) bool {
	if c.X < 0 || c.X >= f.width || c.Y < 0 || c.Y >= f.height {
		return true
	}
	return f.walls[c]
}

// collector merges duplicate octant reports idempotently, keeping the
// shallowest depth seen per cell.
type collector struct {
	depths map[Coord[int]]int
	visits map[Coord[int]]int
}

func newCollector() *collector {
	return &collector{
		depths: make(map[Coord[int]]int),
		visits: make(map[Coord[int]]int),
	}
}

func (v *collector) See(c Coord[int], depth int, o Octant) {
	v.visits[c]++
	if d, ok := v.depths[c]; !ok || depth < d {
		v.depths[c] = depth
	}
}

func (v *collector) visible(c Coord[int]) bool {
	_, ok := v.depths[c]
	return ok
}

func open[T Signed]() OpacityFunc[T] {
	return func(Coord[T]) bool { return false }
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func chebyshev(a, b Coord[int]) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func TestEmptyGridIsChebyshevDisc(t *testing.T) {
	const radius = 6
	origin := C(3, -2)
	got := newCollector()
	Compute(origin, radius, open[int](), got)

	want := (2*radius + 1) * (2*radius + 1)
	if len(got.depths) != want {
		t.Fatalf("visible %d cells, want %d", len(got.depths), want)
	}
	for c := range got.depths {
		if chebyshev(c, origin) > radius {
			t.Errorf("cell %v outside radius %d reported visible", c, radius)
		}
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := origin.Add(C(dx, dy))
			if !got.visible(c) {
				t.Errorf("cell %v within radius %d not visible", c, radius)
			}
		}
	}
}

func TestEmptyGridRotationSymmetry(t *testing.T) {
	// With nothing blocking sight, the visible set must be unchanged under
	// quarter-turn rotation of offsets around the observer.
	origin := C(0, 0)
	got := newCollector()
	Compute(origin, 5, open[int](), got)
	for c := range got.depths {
		rot := C(-c.Y, c.X)
		if !got.visible(rot) {
			t.Errorf("visible set not rotation symmetric: %v visible, %v not", c, rot)
		}
	}
}

func TestOpaqueSelf(t *testing.T) {
	// The observer's own cell is reported even when it blocks sight.
	origin := C(2, 2)
	src := OpacityFunc[int](func(Coord[int]) bool { return true })
	got := newCollector()
	Compute(origin, 4, src, got)
	if !got.visible(origin) {
		t.Fatal("observer cell not reported visible")
	}
	if got.depths[origin] != 0 {
		t.Errorf("observer reported at depth %d, want 0", got.depths[origin])
	}
}

func TestTotalShadowBehindAxisWall(t *testing.T) {
	origin := C(0, 0)
	wall := C(1, 0)
	src := OpacityFunc[int](func(c Coord[int]) bool { return c == wall })
	got := newCollector()
	Compute(origin, 3, src, got)

	if !got.visible(wall) {
		t.Error("wall cell itself should be visible")
	}
	for _, c := range []Coord[int]{C(2, 0), C(3, 0)} {
		if got.visible(c) {
			t.Errorf("cell %v behind axis wall should be shadowed", c)
		}
	}
	// Diagonal leakage around a single-cell wall is the defining behavior
	// of shadowcasting.
	for _, c := range []Coord[int]{C(2, 1), C(2, -1), C(3, 1), C(3, -1)} {
		if !got.visible(c) {
			t.Errorf("cell %v beside the shadow should be visible", c)
		}
	}
}

func TestDiagonalWallBlocksDiagonal(t *testing.T) {
	// A single fully opaque diagonal cell must not let sight through on the
	// exact diagonal line behind it.
	origin := C(0, 0)
	wall := C(1, 1)
	src := OpacityFunc[int](func(c Coord[int]) bool { return c == wall })
	got := newCollector()
	Compute(origin, 4, src, got)

	if !got.visible(wall) {
		t.Error("diagonal wall cell itself should be visible")
	}
	for _, c := range []Coord[int]{C(2, 2), C(3, 3), C(4, 4)} {
		if got.visible(c) {
			t.Errorf("cell %v behind diagonal wall should be shadowed", c)
		}
	}
	// Boundary-inclusive bounds keep the cells hugging the shadow edge
	// revealed.
	for _, c := range []Coord[int]{C(2, 1), C(1, 2)} {
		if !got.visible(c) {
			t.Errorf("cell %v at the shadow edge should be visible", c)
		}
	}
}

func TestRoomFixture(t *testing.T) {
	f := parseFixture(t, []string{
		"..........",
		"..........",
		"....#.....",
		"....#.....",
		"..@.#.....",
		"....#.....",
		"..........",
	})
	got := newCollector()
	Compute(f.origin, 6, f, got)

	// The wall column is lit on its near face.
	for _, c := range []Coord[int]{C(4, 2), C(4, 3), C(4, 4), C(4, 5)} {
		if !got.visible(c) {
			t.Errorf("wall cell %v should be visible", c)
		}
	}
	// Cells straight behind the wall's middle are in shadow.
	for _, c := range []Coord[int]{C(5, 4), C(6, 4), C(5, 3), C(5, 5)} {
		if got.visible(c) {
			t.Errorf("cell %v behind the wall should be shadowed", c)
		}
	}
	// Open floor on the observer's side stays visible.
	for _, c := range []Coord[int]{C(0, 4), C(3, 4), C(2, 0), C(3, 6)} {
		if !got.visible(c) {
			t.Errorf("open cell %v should be visible", c)
		}
	}
}

func TestRadiusBoundaryInclusive(t *testing.T) {
	const radius = 4
	origin := C(0, 0)
	got := newCollector()
	Compute(origin, radius, open[int](), got)

	for _, c := range []Coord[int]{C(radius, 0), C(0, -radius), C(radius, radius), C(-radius, 2)} {
		if !got.visible(c) {
			t.Errorf("cell %v at depth exactly %d should be visible", c, radius)
		}
	}
	for c := range got.visits {
		if chebyshev(c, origin) > radius {
			t.Errorf("cell %v beyond the radius was visited", c)
		}
	}
}

func TestZeroAndNegativeRadius(t *testing.T) {
	for _, radius := range []int{0, -3} {
		got := newCollector()
		Compute(C(7, 7), radius, open[int](), got)
		if len(got.visits) != 1 || !got.visible(C(7, 7)) {
			t.Errorf("radius %d: want only the observer visible, got %d cells", radius, len(got.visits))
		}
	}
}

func TestDuplicateReportsOnlyOnSharedBoundaries(t *testing.T) {
	const radius = 4
	got := newCollector()
	Compute(C(0, 0), radius, open[int](), got)

	for c, n := range got.visits {
		want := 1
		if (c.X == 0 || c.Y == 0 || c.X == c.Y || c.X == -c.Y) && c != C(0, 0) {
			want = 2
		}
		if n != want {
			t.Errorf("cell %v reported %d times, want %d", c, n, want)
		}
	}
}

func TestScannerReuseIsIdempotent(t *testing.T) {
	f := parseFixture(t, []string{
		"#.#.#.#.",
		".#...#..",
		"..@.....",
		"#....##.",
		"...#....",
	})
	s := NewScanner[int]()

	first := newCollector()
	s.Compute(f.origin, 5, f, first)
	second := newCollector()
	s.Compute(f.origin, 5, f, second)

	if len(first.depths) != len(second.depths) {
		t.Fatalf("visible set changed on reuse: %d vs %d cells", len(first.depths), len(second.depths))
	}
	for c, d := range first.depths {
		if d2, ok := second.depths[c]; !ok || d2 != d {
			t.Errorf("cell %v: first run depth %d, second run %v", c, d, d2)
		}
	}
}

func TestZeroValueScanner(t *testing.T) {
	var s Scanner[int]
	got := newCollector()
	s.Compute(C(0, 0), 2, open[int](), got)
	if len(got.depths) != 25 {
		t.Errorf("zero-value scanner visible %d cells, want 25", len(got.depths))
	}
}

func TestLargeRadiusUsesHeapStack(t *testing.T) {
	// A radius this size would be deep recursion territory; the explicit
	// work stack must absorb it. Alternating wall stripes force heavy span
	// splitting.
	src := OpacityFunc[int](func(c Coord[int]) bool {
		return c.Y != 0 && c.X%3 == 0 && c.Y%2 == 0
	})
	got := newCollector()
	Compute(C(0, 0), 300, src, got)
	if !got.visible(C(300, 0)) {
		t.Error("open axis cell at full radius should be visible")
	}
}

func TestNarrowNumericType(t *testing.T) {
	// int16 keeps products within range for small radii per the documented
	// precondition.
	got := make(map[Coord[int16]]int16)
	Compute(C[int16](0, 0), 3, open[int16](), VisitFunc[int16](func(c Coord[int16], depth int16, o Octant) {
		if d, ok := got[c]; !ok || depth < d {
			got[c] = depth
		}
	}))
	if len(got) != 49 {
		t.Errorf("int16 scan visible %d cells, want 49", len(got))
	}
	if got[C[int16](3, -3)] != 3 {
		t.Errorf("corner depth = %d, want 3", got[C[int16](3, -3)])
	}
}

func TestVisitOrderDeterministic(t *testing.T) {
	f := parseFixture(t, []string{
		".....",
		".#...",
		"..@..",
		"...#.",
		".....",
	})
	order := func() string {
		var sb strings.Builder
		Compute(f.origin, 3, f, VisitFunc[int](func(c Coord[int], depth int, o Octant) {
			sb.WriteByte(byte('0' + o))
		}))
		return sb.String()
	}
	a, b := order(), order()
	if a != b {
		t.Errorf("visit order differs between identical runs:\n%s\n%s", a, b)
	}
}
