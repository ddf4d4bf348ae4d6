// Package lighting accumulates per-cell brightness from grid-positioned
// light sources. Occlusion comes from the fov engine; falloff is derived here
// from the reported coordinates, since the engine itself only exposes
// distance and visibility metadata.
package lighting

import (
	"image/color"
	"math"

	"chosenoffset.com/shadowcast/fov"
	"chosenoffset.com/shadowcast/grid"
)

// Source is a single light source on the grid.
type Source struct {
	Pos       fov.Coord[int]
	Radius    int
	Intensity float64 // 0.0 to 1.0
	Color     color.NRGBA
}

// Manager holds the light sources and the global ambient level.
type Manager struct {
	sources []Source
	ambient float64
}

// NewManager creates a manager with a low ambient level.
func NewManager() *Manager {
	return &Manager{ambient: 0.15}
}

// SetAmbientLight sets the global ambient light level (0.0 = pitch black,
// 1.0 = fully lit).
func (m *Manager) SetAmbientLight(level float64) {
	m.ambient = level
}

// AmbientLight returns the current ambient light level.
func (m *Manager) AmbientLight() float64 {
	return m.ambient
}

// AddSource registers a light source.
func (m *Manager) AddSource(s Source) {
	m.sources = append(m.sources, s)
}

// Reset removes all registered light sources.
func (m *Manager) Reset() {
	m.sources = m.sources[:0]
}

// Sources returns the registered light sources.
func (m *Manager) Sources() []Source {
	return m.sources
}

// Lightmap is the accumulated per-cell brightness of one computation.
type Lightmap struct {
	width   int
	height  int
	level   []float64
	ambient float64
}

// Level returns the brightness of the cell at (x, y), clamped to [0, 1].
// Out-of-range cells are dark.
func (lm *Lightmap) Level(x, y int) float64 {
	if x < 0 || x >= lm.width || y < 0 || y >= lm.height {
		return 0
	}
	lvl := lm.ambient + lm.level[y*lm.width+x]
	if lvl > 1 {
		return 1
	}
	return lvl
}

// Shade scales a color by the brightness at (x, y).
func (lm *Lightmap) Shade(x, y int, clr color.NRGBA) color.NRGBA {
	lvl := lm.Level(x, y)
	return color.NRGBA{
		R: uint8(float64(clr.R) * lvl),
		G: uint8(float64(clr.G) * lvl),
		B: uint8(float64(clr.B) * lvl),
		A: clr.A,
	}
}

// Lightmap runs one visibility computation per source and accumulates
// brightness with Euclidean falloff over the lit cells. Sources share the
// supplied scanner serially; one engine instance must never run two
// overlapping computations, so concurrent callers need their own. A nil
// scanner gets a throwaway one.
func (m *Manager) Lightmap(op *grid.Opacity, scanner *fov.Scanner[int]) *Lightmap {
	if scanner == nil {
		scanner = fov.NewScanner[int]()
	}
	lm := &Lightmap{
		width:   op.Width(),
		height:  op.Height(),
		level:   make([]float64, op.Width()*op.Height()),
		ambient: m.ambient,
	}
	mask := grid.NewMask(op.Width(), op.Height())
	for _, src := range m.sources {
		mask.Clear()
		scanner.Compute(src.Pos, src.Radius, op, mask)
		for y := 0; y < lm.height; y++ {
			for x := 0; x < lm.width; x++ {
				if !mask.Visible(x, y) {
					continue
				}
				dx := float64(x - src.Pos.X)
				dy := float64(y - src.Pos.Y)
				dist := math.Sqrt(dx*dx + dy*dy)
				falloff := 1 - dist/(float64(src.Radius)+1)
				if falloff <= 0 {
					continue
				}
				lm.level[y*lm.width+x] += falloff * src.Intensity
			}
		}
	}
	return lm
}
