package render

import (
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

type tileKey struct {
	terrain viewport.Terrain
	variant int
}

// IsoRenderer draws the visible window of a tiler onto an ebiten image
type IsoRenderer struct {
	Tiler     *viewport.Tiler
	Tiles     *TileSet
	TileCache map[tileKey]*ebiten.Image

	white *ebiten.Image
}

// NewIsoRenderer creates a renderer for tl. tiles may be nil.
func NewIsoRenderer(tl *viewport.Tiler, tiles *TileSet) *IsoRenderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &IsoRenderer{
		Tiler:     tl,
		Tiles:     tiles,
		TileCache: make(map[tileKey]*ebiten.Image),
		white:     white,
	}
}

// GetTileImage returns (or creates) the tile image for a terrain variant
func (r *IsoRenderer) GetTileImage(terrain viewport.Terrain, variant int) *ebiten.Image {
	if img := r.Tiles.Variant(terrain, variant); img != nil {
		return img
	}
	k := tileKey{terrain, variant}
	if img, ok := r.TileCache[k]; ok {
		return img
	}

	cfg := r.Tiler.Config()
	tw, th := int(cfg.TileWidth), int(cfg.TileHeight)
	img := ebiten.NewImage(tw, th)
	clr := Tint(TerrainColors[terrain], variant, cfg.JitterPeriod)

	hw := float32(tw) / 2
	hh := float32(th) / 2

	var path vector.Path
	path.MoveTo(hw, 0)
	path.LineTo(float32(tw), hh)
	path.LineTo(hw, float32(th))
	path.LineTo(0, hh)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}
	img.DrawTriangles(vs, is, r.white, nil)

	strokeDiamond(img, hw, hh, hw, hh, 1, StrokeColor)

	r.TileCache[k] = img
	return img
}

// DrawCells renders every visible cell. elapsed drives the water shimmer.
func (r *IsoRenderer) DrawCells(screen *ebiten.Image, cam viewport.CameraState, elapsed time.Duration) {
	cfg := r.Tiler.Config()
	for cell := range r.Tiler.VisibleCells(cam) {
		p := r.Tiler.DisplayPoint(cam, cell.X, cell.Y)
		if cell.Terrain == viewport.TerrainWater {
			p.Y += ShimmerOffset(cell.Phase, elapsed) * cam.Zoom
		}
		if !onScreen(p, cfg, cam.Zoom) {
			continue
		}

		op := &ebiten.DrawImageOptions{}
		img := r.GetTileImage(cell.Terrain, cell.Variant)
		b := img.Bounds()
		op.GeoM.Scale(cfg.TileWidth/float64(b.Dx())*cam.Zoom, cfg.TileHeight/float64(b.Dy())*cam.Zoom)
		op.GeoM.Translate(p.X-cfg.TileWidth*cam.Zoom/2, p.Y-cfg.TileHeight*cam.Zoom/2)
		screen.DrawImage(img, op)
	}
}

func onScreen(p viewport.ScreenPoint, cfg viewport.Config, zoom float64) bool {
	mw, mh := cfg.TileWidth*zoom, cfg.TileHeight*zoom
	return p.X > -mw && p.Y > -mh && p.X < cfg.ViewportWidth+mw && p.Y < cfg.ViewportHeight+mh
}

// DrawHighlight outlines the hovered cell, red when nothing can be placed there
func (r *IsoRenderer) DrawHighlight(screen *ebiten.Image, cam viewport.CameraState, cell viewport.GridCell) {
	cfg := r.Tiler.Config()
	p := r.Tiler.DisplayPoint(cam, cell.X, cell.Y)
	clr := HoverColor
	if cell.Terrain == viewport.TerrainWater {
		clr = BlockedColor
	}
	hw := float32(cfg.TileWidth * cam.Zoom / 2)
	hh := float32(cfg.TileHeight * cam.Zoom / 2)
	strokeDiamond(screen, float32(p.X), float32(p.Y), hw, hh, 2, clr)
}

// DrawObjects draws placed objects as small houses, back to front
func (r *IsoRenderer) DrawObjects(screen *ebiten.Image, cam viewport.CameraState, objects []placement.Object) {
	cfg := r.Tiler.Config()
	w := r.Tiler.Window(cam)
	s := float32(cfg.TileHeight * cam.Zoom / 2)
	for _, obj := range objects {
		if !w.Contains(obj.X, obj.Y) {
			continue
		}
		p := r.Tiler.DisplayPoint(cam, obj.X, obj.Y)
		x, y := float32(p.X), float32(p.Y)

		vector.DrawFilledRect(screen, x-s/2, y-s, s, s, ObjectColor, false)
		vector.StrokeLine(screen, x-s*0.7, y-s, x, y-s*1.7, 2, RoofColor, false)
		vector.StrokeLine(screen, x, y-s*1.7, x+s*0.7, y-s, 2, RoofColor, false)
	}
}

// DrawHUD prints status lines in the top-left corner
func (r *IsoRenderer) DrawHUD(screen *ebiten.Image, lines ...string) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, strings.Join(lines, "\n"), hudFace, op)
}

// strokeDiamond outlines a rhombus centered on (cx, cy).
func strokeDiamond(dst *ebiten.Image, cx, cy, hw, hh, width float32, clr color.Color) {
	vector.StrokeLine(dst, cx, cy-hh, cx+hw, cy, width, clr, false)
	vector.StrokeLine(dst, cx+hw, cy, cx, cy+hh, width, clr, false)
	vector.StrokeLine(dst, cx, cy+hh, cx-hw, cy, width, clr, false)
	vector.StrokeLine(dst, cx-hw, cy, cx, cy-hh, width, clr, false)
}
