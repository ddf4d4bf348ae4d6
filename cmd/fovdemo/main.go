// Command fovdemo is an interactive viewer for the shadowcasting engine.
// Move the observer with the arrow keys or WASD, resize the vision radius
// with '[' and ']', toggle the light overlay with Tab, and press F5 to dump
// the current visibility mask to a JSON snapshot.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/shadowcast/fov"
	"chosenoffset.com/shadowcast/grid"
	"chosenoffset.com/shadowcast/lighting"
	"chosenoffset.com/shadowcast/maploader"
)

const tileSize = 24

// defaultMap keeps the demo runnable without any data files on disk.
const defaultMap = `{
	"name": "default",
	"width": 24,
	"height": 16,
	"legend": {
		"#": {"name": "wall", "blocks_sight": true},
		".": {"name": "floor", "blocks_sight": false}
	},
	"rows": [
		"########################",
		"#......#...............#",
		"#......#....######.....#",
		"#......#....#....#.....#",
		"#......#....#....#.....#",
		"#...........#....#.....#",
		"#......#....###.##.....#",
		"#......#...............#",
		"########.......#.......#",
		"#..............#.......#",
		"#......#####...#.......#",
		"#..........#...#.......#",
		"#..........#...........#",
		"#...####...#...#########",
		"#..........#...........#",
		"########################"
	],
	"observer_spawn": {"x": 2, "y": 2},
	"vision_radius": 8
}`

type demo struct {
	gameMap  *maploader.Map
	opacity  *grid.Opacity
	mask     *grid.Mask
	scanner  *fov.Scanner[int]
	lights   *lighting.Manager
	lightmap *lighting.Lightmap

	observer fov.Coord[int]
	radius   int
	overlay  bool
	status   string
}

func newDemo(m *maploader.Map) *demo {
	op := m.Opacity()
	d := &demo{
		gameMap:  m,
		opacity:  op,
		mask:     grid.NewMask(op.Width(), op.Height()),
		scanner:  fov.NewScanner[int](),
		lights:   lighting.NewManager(),
		observer: m.Data.ObserverSpawn,
		radius:   m.Data.VisionRadius,
	}
	d.lights.SetAmbientLight(0.1)
	d.recompute()
	return d
}

// recompute refreshes the visibility mask and, if the overlay is on, the
// lightmap for the observer's torch.
func (d *demo) recompute() {
	d.mask.Clear()
	d.scanner.Compute(d.observer, d.radius, d.opacity, d.mask)

	if d.overlay {
		d.lights.Reset()
		d.lights.AddSource(lighting.Source{
			Pos:       d.observer,
			Radius:    d.radius,
			Intensity: 1,
			Color:     color.NRGBA{R: 255, G: 220, B: 160, A: 255},
		})
		d.lightmap = d.lights.Lightmap(d.opacity, d.scanner)
	} else {
		d.lightmap = nil
	}
}

func (d *demo) tryMove(dx, dy int) {
	next := d.observer.Add(fov.C(dx, dy))
	if d.gameMap.BlocksSight(next.X, next.Y) {
		return
	}
	d.observer = next
	d.recompute()
}

func (d *demo) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA):
		d.tryMove(-1, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD):
		d.tryMove(1, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW):
		d.tryMove(0, -1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS):
		d.tryMove(0, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		if d.radius > 0 {
			d.radius--
			d.recompute()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		d.radius++
		d.recompute()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		d.overlay = !d.overlay
		d.recompute()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if err := d.mask.Save("visibility.json"); err != nil {
			log.Printf("snapshot failed: %v", err)
			d.status = "snapshot failed"
		} else {
			d.status = "saved visibility.json"
		}
	}
	return nil
}

var (
	colorHidden      = color.NRGBA{R: 12, G: 12, B: 16, A: 255}
	colorFloor       = color.NRGBA{R: 120, G: 120, B: 110, A: 255}
	colorWall        = color.NRGBA{R: 200, G: 190, B: 170, A: 255}
	colorObserver    = color.NRGBA{R: 250, G: 220, B: 60, A: 255}
	colorUnseen = color.NRGBA{R: 40, G: 40, B: 48, A: 255}
)

func (d *demo) Draw(screen *ebiten.Image) {
	screen.Fill(colorHidden)
	for y := 0; y < d.opacity.Height(); y++ {
		for x := 0; x < d.opacity.Width(); x++ {
			var clr color.NRGBA
			wall := d.opacity.Opaque(fov.C(x, y))
			switch {
			case !d.mask.Visible(x, y):
				clr = colorUnseen
			case wall:
				clr = colorWall
			default:
				clr = colorFloor
				if depth, ok := d.mask.Depth(x, y); ok && d.radius > 0 {
					// Fade floor tiles with scan depth so the shadow
					// shapes read at a glance.
					fade := 1 - float64(depth)/float64(d.radius+1)/2
					clr.R = uint8(float64(clr.R) * fade)
					clr.G = uint8(float64(clr.G) * fade)
					clr.B = uint8(float64(clr.B) * fade)
				}
			}
			if d.lightmap != nil && d.mask.Visible(x, y) {
				clr = d.lightmap.Shade(x, y, clr)
			}
			vector.DrawFilledRect(screen,
				float32(x*tileSize), float32(y*tileSize),
				tileSize-1, tileSize-1, clr, false)
		}
	}

	ox, oy := d.observer.X, d.observer.Y
	vector.DrawFilledCircle(screen,
		float32(ox*tileSize)+tileSize/2, float32(oy*tileSize)+tileSize/2,
		tileSize/3, colorObserver, true)

	hud := fmt.Sprintf("%s  radius %d  visible %d", d.gameMap.Data.Name, d.radius, d.mask.Count())
	if d.status != "" {
		hud += "  " + d.status
	}
	ebitenutil.DebugPrintAt(screen, hud, 4, d.opacity.Height()*tileSize+4)
}

func (d *demo) Layout(outsideWidth, outsideHeight int) (int, int) {
	return d.opacity.Width() * tileSize, d.opacity.Height()*tileSize + 20
}

func main() {
	mapPath := flag.String("map", "", "path to a map JSON file (built-in map if empty)")
	mapDir := flag.String("mapdir", "", "directory to list available maps from, then exit")
	flag.Parse()

	if *mapDir != "" {
		maps, err := maploader.ScanDirectory(*mapDir)
		if err != nil {
			log.Fatalf("Failed to scan map directory: %v", err)
		}
		for _, m := range maps {
			fmt.Println(m)
		}
		return
	}

	var (
		m   *maploader.Map
		err error
	)
	if *mapPath != "" {
		m, err = maploader.LoadMap(*mapPath)
	} else {
		m, err = maploader.ParseMap([]byte(defaultMap))
	}
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}

	d := newDemo(m)
	ebiten.SetWindowSize(d.opacity.Width()*tileSize, d.opacity.Height()*tileSize+20)
	ebiten.SetWindowTitle("fovdemo - " + m.Data.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Println("Starting demo...")
	if err := ebiten.RunGame(d); err != nil {
		log.Fatal(err)
	}
}
