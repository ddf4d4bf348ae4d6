package grid

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"chosenoffset.com/shadowcast/fov"
)

// Mask records which cells a computation saw, together with the shallowest
// scan depth reported for each. It implements fov.VisitSink and merges the
// duplicate reports adjoining octants produce for axis and diagonal cells.
//
// Clearing uses a generation counter over a stamp array, so reuse across
// frames costs O(1) instead of a full wipe.
type Mask struct {
	width  int
	height int
	stamp  []uint32
	depth  []int
	gen    uint32
	count  int
}

// NewMask returns an empty mask of the given dimensions.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		stamp:  make([]uint32, width*height),
		depth:  make([]int, width*height),
		gen:    1,
	}
}

// See implements fov.VisitSink. Reports outside the mask bounds are dropped;
// the engine can legitimately report the opaque border cells past the map
// edge. Duplicate reports of one cell keep the shallowest depth.
func (m *Mask) See(c fov.Coord[int], depth int, o fov.Octant) {
	if c.X < 0 || c.X >= m.width || c.Y < 0 || c.Y >= m.height {
		return
	}
	i := c.Y*m.width + c.X
	if m.stamp[i] != m.gen {
		m.stamp[i] = m.gen
		m.depth[i] = depth
		m.count++
		return
	}
	if depth < m.depth[i] {
		m.depth[i] = depth
	}
}

// Clear forgets all recorded cells without touching the backing arrays.
func (m *Mask) Clear() {
	if m.gen == ^uint32(0) {
		for i := range m.stamp {
			m.stamp[i] = 0
		}
		m.gen = 0
	}
	m.gen++
	m.count = 0
}

// Width returns the mask width in cells.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in cells.
func (m *Mask) Height() int { return m.height }

// Visible reports whether the cell at (x, y) was seen since the last Clear.
func (m *Mask) Visible(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.stamp[y*m.width+x] == m.gen
}

// Depth returns the shallowest reported depth for the cell at (x, y), and
// whether the cell was seen at all.
func (m *Mask) Depth(x, y int) (int, bool) {
	if !m.Visible(x, y) {
		return 0, false
	}
	return m.depth[y*m.width+x], true
}

// Count returns the number of distinct cells seen since the last Clear.
func (m *Mask) Count() int { return m.count }

// String renders the mask for fixtures and debugging: '*' for visible cells,
// '.' for hidden ones.
func (m *Mask) String() string {
	var sb strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Visible(x, y) {
				sb.WriteByte('*')
			} else {
				sb.WriteByte('.')
			}
		}
		if y < m.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// snapshot is the persisted form of a mask: only the seen cells, row-major.
type snapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Cells  []snapshotCell `json:"cells"`
}

type snapshotCell struct {
	Coord fov.Coord[int] `json:"coord"`
	Depth int            `json:"depth"`
}

// Save writes the currently visible cells to a JSON file.
func (m *Mask) Save(path string) error {
	snap := snapshot{Width: m.width, Height: m.height}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if d, ok := m.Depth(x, y); ok {
				snap.Cells = append(snap.Cells, snapshotCell{Coord: fov.C(x, y), Depth: d})
			}
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize visibility snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write visibility snapshot: %w", err)
	}
	return nil
}

// LoadMask reads a mask previously written by Save.
func LoadMask(path string) (*Mask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read visibility snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse visibility snapshot: %w", err)
	}
	m := NewMask(snap.Width, snap.Height)
	for _, cell := range snap.Cells {
		m.See(cell.Coord, cell.Depth, 0)
	}
	return m, nil
}
