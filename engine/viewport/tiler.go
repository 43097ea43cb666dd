// Package viewport computes the visible window of an isometric tile grid
// from a camera, classifies each cell as water or land, and maps between
// grid coordinates and screen space.
package viewport

import (
	"fmt"
	"iter"
	"math"
)

// Terrain is the classification of a grid cell.
type Terrain uint8

const (
	TerrainLand Terrain = iota
	TerrainWater
)

func (t Terrain) String() string {
	if t == TerrainWater {
		return "water"
	}
	return "land"
}

// MarshalText encodes the terrain by name.
func (t Terrain) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes "land" or "water".
func (t *Terrain) UnmarshalText(b []byte) error {
	switch string(b) {
	case "land":
		*t = TerrainLand
	case "water":
		*t = TerrainWater
	default:
		return fmt.Errorf("viewport: unknown terrain %q", b)
	}
	return nil
}

// ScreenPoint is a position in scene pixels.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridCell is one drawable cell of the visible window.
type GridCell struct {
	X       int         `json:"x"`
	Y       int         `json:"y"`
	Terrain Terrain     `json:"terrain"`
	Screen  ScreenPoint `json:"screen"` // center of the rhombus
	Variant int         `json:"variant"`
	Phase   float64     `json:"phase"` // shimmer delay, 0..1
}

// Window is the N x N block of grid space visible from a camera.
type Window struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	Size int `json:"size"`
}

// Contains reports whether (x, y) lies in the window.
func (w Window) Contains(x, y int) bool {
	return x >= w.MinX && y >= w.MinY && x < w.MinX+w.Size && y < w.MinY+w.Size
}

// Tiler turns camera state into the cells to draw.
type Tiler struct {
	cfg Config
}

// NewTiler validates cfg and returns a tiler bound to it.
func NewTiler(cfg Config) (*Tiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tiler{cfg: cfg}, nil
}

// Config returns the tiler's configuration.
func (t *Tiler) Config() Config { return t.cfg }

// MaxWindowCoord bounds the window corner. Scrolls further out than this
// many tiles, or a zero zoom, pin the window to the bound.
const MaxWindowCoord = 1 << 40

// Window returns the grid-space window centered on the camera scroll.
func (t *Tiler) Window(cam CameraState) Window {
	visibleW := t.cfg.ViewportWidth / cam.Zoom
	visibleH := t.cfg.ViewportHeight / cam.Zoom
	return Window{
		MinX: gridFloor((cam.ScrollX - visibleW/2) / t.cfg.TileWidth),
		MinY: gridFloor((cam.ScrollY - visibleH/2) / t.cfg.TileHeight),
		Size: t.cfg.VisibleTiles,
	}
}

// VisibleCells yields the window's cells row by row. Each iteration
// recomputes everything from cam; nothing is cached between calls.
func (t *Tiler) VisibleCells(cam CameraState) iter.Seq[GridCell] {
	w := t.Window(cam)
	return func(yield func(GridCell) bool) {
		for dy := 0; dy < w.Size; dy++ {
			for dx := 0; dx < w.Size; dx++ {
				if !yield(t.Cell(w.MinX+dx, w.MinY+dy)) {
					return
				}
			}
		}
	}
}

// Cell builds the descriptor for one grid coordinate.
func (t *Tiler) Cell(x, y int) GridCell {
	return GridCell{
		X:       x,
		Y:       y,
		Terrain: t.Classify(x, y),
		Screen:  t.ProjectToScreen(x, y),
		Variant: t.variant(x, y),
		Phase:   float64(mod((x+y)*200, 1000)) / 1000,
	}
}

// Classify applies the water policy to a grid coordinate.
func (t *Tiler) Classify(x, y int) Terrain {
	n := t.cfg.VisibleTiles
	band := int(math.Floor(float64(n) * t.cfg.WaterFraction))

	c := y
	if t.cfg.Water.Axis == AxisColumn {
		c = x
	}

	var water bool
	switch t.cfg.Water.Edge {
	case EdgeNear:
		if t.cfg.Water.Inclusive {
			water = c <= band
		} else {
			water = c < band
		}
	default:
		if t.cfg.Water.Inclusive {
			water = c >= n-band
		} else {
			water = c > n-band
		}
	}
	if water {
		return TerrainWater
	}
	return TerrainLand
}

func (t *Tiler) variant(x, y int) int {
	if t.cfg.JitterPeriod == 0 {
		return 0
	}
	return mod(x+y, t.cfg.JitterPeriod)
}

func (t *Tiler) origin() (float64, float64) {
	return t.cfg.ViewportWidth / 2,
		t.cfg.ViewportHeight/2 - float64(t.cfg.VisibleTiles)*t.cfg.TileHeight/2
}

// ProjectToScreen converts grid coords to the scene-space rhombus center.
func (t *Tiler) ProjectToScreen(gx, gy int) ScreenPoint {
	ox, oy := t.origin()
	return ScreenPoint{
		X: float64(gx-gy)*t.cfg.TileWidth/2 + ox,
		Y: float64(gx+gy)*t.cfg.TileHeight/2 + oy,
	}
}

// ScreenToGrid returns the cell whose rhombus contains p.
func (t *Tiler) ScreenToGrid(p ScreenPoint) (gx, gy int) {
	fx, fy := t.ScreenToGridF(p)
	return int(math.Round(fx)), int(math.Round(fy))
}

// ScreenToGridF is the continuous inverse of ProjectToScreen.
func (t *Tiler) ScreenToGridF(p ScreenPoint) (float64, float64) {
	ox, oy := t.origin()
	a := (p.X - ox) / (t.cfg.TileWidth / 2)  // gx - gy
	b := (p.Y - oy) / (t.cfg.TileHeight / 2) // gx + gy
	return (a + b) / 2, (b - a) / 2
}

// gridFloor floors v into [-MaxWindowCoord, MaxWindowCoord]; NaN maps to 0.
func gridFloor(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(-MaxWindowCoord, math.Min(MaxWindowCoord, math.Floor(v))))
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
