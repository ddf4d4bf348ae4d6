// Package maploader loads tile maps from JSON files and turns them into
// opacity grids for visibility computation.
package maploader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chosenoffset.com/shadowcast/fov"
	"chosenoffset.com/shadowcast/grid"
)

// TileDef describes one legend entry of a map file.
type TileDef struct {
	Name        string `json:"name"`
	BlocksSight bool   `json:"blocks_sight"`
}

// MapData is the on-disk map schema: a rune legend plus one string per row.
type MapData struct {
	Name          string             `json:"name"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	Legend        map[string]TileDef `json:"legend"`
	Rows          []string           `json:"rows"`
	ObserverSpawn fov.Coord[int]     `json:"observer_spawn"`
	VisionRadius  int                `json:"vision_radius"`
}

// Map is a loaded and validated map.
type Map struct {
	Data *MapData
}

// LoadMap reads and parses a map from a JSON file.
func LoadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}
	m, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("invalid map file %s: %w", path, err)
	}
	return m, nil
}

// ParseMap parses and validates raw map JSON.
func ParseMap(data []byte) (*Map, error) {
	var mapData MapData
	if err := json.Unmarshal(data, &mapData); err != nil {
		return nil, fmt.Errorf("failed to parse map JSON: %w", err)
	}
	if err := validateMapData(&mapData); err != nil {
		return nil, err
	}
	return &Map{Data: &mapData}, nil
}

// validateMapData checks the map schema for internal consistency.
func validateMapData(data *MapData) error {
	if data.Width <= 0 || data.Height <= 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", data.Width, data.Height)
	}
	if len(data.Legend) == 0 {
		return fmt.Errorf("map legend is empty")
	}
	for key := range data.Legend {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("legend key %q is not a single rune", key)
		}
	}
	if len(data.Rows) != data.Height {
		return fmt.Errorf("rows height mismatch: expected %d, got %d", data.Height, len(data.Rows))
	}
	for y, row := range data.Rows {
		runes := []rune(row)
		if len(runes) != data.Width {
			return fmt.Errorf("row %d width mismatch: expected %d, got %d", y, data.Width, len(runes))
		}
		for x, ch := range runes {
			if _, ok := data.Legend[string(ch)]; !ok {
				return fmt.Errorf("rune %q at (%d, %d) missing from legend", ch, x, y)
			}
		}
	}
	spawn := data.ObserverSpawn
	if spawn.X < 0 || spawn.X >= data.Width || spawn.Y < 0 || spawn.Y >= data.Height {
		return fmt.Errorf("observer spawn %v outside %dx%d map", spawn, data.Width, data.Height)
	}
	if data.VisionRadius < 0 {
		return fmt.Errorf("invalid vision radius: %d", data.VisionRadius)
	}
	return nil
}

// TileAt returns the legend entry for the tile at (x, y).
func (m *Map) TileAt(x, y int) (TileDef, error) {
	if x < 0 || x >= m.Data.Width || y < 0 || y >= m.Data.Height {
		return TileDef{}, fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}
	ch := []rune(m.Data.Rows[y])[x]
	return m.Data.Legend[string(ch)], nil
}

// BlocksSight reports whether the tile at (x, y) blocks line of sight.
// Out-of-bounds coordinates block sight, matching the opacity contract.
func (m *Map) BlocksSight(x, y int) bool {
	tile, err := m.TileAt(x, y)
	if err != nil {
		return true
	}
	return tile.BlocksSight
}

// Opacity builds a dense opacity grid from the map tiles.
func (m *Map) Opacity() *grid.Opacity {
	op := grid.NewOpacity(m.Data.Width, m.Data.Height)
	for y := 0; y < m.Data.Height; y++ {
		for x, ch := range []rune(m.Data.Rows[y]) {
			op.Set(x, y, m.Data.Legend[string(ch)].BlocksSight)
		}
	}
	return op
}

// ScanDirectory lists the map files in a directory, sorted by name, so a
// front end can offer a map picker.
func ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}
	var maps []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			maps = append(maps, filepath.Join(dir, name))
		}
	}
	sort.Strings(maps)
	return maps, nil
}
