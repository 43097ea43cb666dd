package term

import (
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/isogrid/engine/viewport"
)

var (
	landColor    = tcell.NewRGBColor(0xFE, 0xF3, 0xC7)
	waterColor   = tcell.NewRGBColor(0x0E, 0xA5, 0xE9)
	hoverColor   = tcell.NewRGBColor(0x22, 0xC5, 0x5E)
	blockedColor = tcell.NewRGBColor(0xEF, 0x44, 0x44)
	objectColor  = tcell.NewRGBColor(0x7C, 0x2D, 0x12)
	emptyStyle   = tcell.StyleDefault.Background(tcell.ColorWhite)
)

// CellStyle returns the box style and glyph of one grid cell. Water glyphs
// alternate every half second, offset by the cell's shimmer phase.
func CellStyle(cell viewport.GridCell, elapsed time.Duration) (tcell.Style, rune) {
	if cell.Terrain == viewport.TerrainWater {
		step := int((elapsed+time.Duration(cell.Phase*float64(time.Second)))/(500*time.Millisecond)) + cell.Variant
		glyph := '~'
		if step%2 == 1 {
			glyph = '≈'
		}
		return tcell.StyleDefault.Background(waterColor).Foreground(tcell.ColorWhite), glyph
	}
	glyph := ' '
	if cell.Variant%2 == 1 {
		glyph = '·'
	}
	return tcell.StyleDefault.Background(landColor).Foreground(tcell.ColorTan), glyph
}

// drawGrid rasterizes the visible window: every terminal cell takes the
// style of the grid cell under its center.
func (a *App) drawGrid(elapsed time.Duration) {
	cam := a.ctrl.Camera
	visible := make(map[[2]int]viewport.GridCell)
	for cell := range a.tiler.VisibleCells(cam) {
		visible[[2]int{cell.X, cell.Y}] = cell
	}

	w, _ := a.screen.Size()
	rows := a.mapRows()
	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			c := a.pick(x, y)
			cell, ok := visible[[2]int{c.X, c.Y}]
			if !ok {
				a.screen.SetContent(x, y, ' ', nil, emptyStyle)
				continue
			}
			style, glyph := CellStyle(cell, elapsed)
			if a.hasHover && cell.X == a.hover.X && cell.Y == a.hover.Y {
				if cell.Terrain == viewport.TerrainWater {
					style = style.Background(blockedColor)
				} else {
					style = style.Background(hoverColor)
				}
			}
			a.screen.SetContent(x, y, glyph, nil, style)
		}
	}

	for _, obj := range a.board.Within(a.tiler.Window(cam)) {
		p := a.tiler.DisplayPoint(cam, obj.X, obj.Y)
		x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
		if x < 0 || y < 0 || x >= w || y >= rows {
			continue
		}
		_, _, style, _ := a.screen.GetContent(x, y)
		a.screen.SetContent(x, y, '▲', nil, style.Foreground(objectColor))
	}
}
