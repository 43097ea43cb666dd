package term

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, ss.Init())
	ss.SetSize(80, 25)
	t.Cleanup(ss.Fini)
	return ss
}

func newApp(t *testing.T, scrollX, scrollY float64) (*App, tcell.SimulationScreen) {
	t.Helper()
	ss := newSimScreen(t)
	cam, err := viewport.NewCameraState(1, 0.5, 2)
	require.NoError(t, err)
	cam.ScrollX, cam.ScrollY = scrollX, scrollY

	app, err := NewApp(ss, Options{
		Viewport:      viewport.DefaultConfig(),
		Camera:        cam,
		WheelSense:    0.001,
		WheelStep:     100,
		DragThreshold: 1,
		BoardName:     "term",
	})
	require.NoError(t, err)
	return app, ss
}

func mouse(x, y int, btn tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, btn, tcell.ModNone)
}

func background(ss tcell.SimulationScreen, x, y int) tcell.Color {
	_, _, style, _ := ss.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestTilerSizedToScreen(t *testing.T) {
	app, _ := newApp(t, 0, 0)
	cfg := app.Tiler().Config()
	assert.Equal(t, float64(TileCols), cfg.TileWidth)
	assert.Equal(t, float64(TileRows), cfg.TileHeight)
	assert.Equal(t, 80.0, cfg.ViewportWidth)
	assert.Equal(t, 24.0, cfg.ViewportHeight)
}

func TestDrawMatchesInverseProjection(t *testing.T) {
	// scroll (-30, 5) puts water cell (10, 25) under the screen center
	app, ss := newApp(t, -30, 5)
	app.Draw()

	assert.Equal(t, waterColor, background(ss, 40, 12))

	cam := app.Controller().Camera
	win := app.Tiler().Window(cam)
	water, land := 0, 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			c := app.Tiler().Pick(cam, float64(x)+0.5, float64(y)+0.5)
			got := background(ss, x, y)
			switch {
			case !win.Contains(c.X, c.Y):
				require.Equal(t, tcell.ColorWhite, got, "(%d,%d)", x, y)
			case c.Terrain == viewport.TerrainWater:
				require.Equal(t, waterColor, got, "(%d,%d)", x, y)
				water++
			default:
				require.Equal(t, landColor, got, "(%d,%d)", x, y)
				land++
			}
		}
	}
	assert.Positive(t, water)
	assert.Positive(t, land)
}

func TestMouseDrag(t *testing.T) {
	app, _ := newApp(t, 0, 0)

	for _, ev := range []*tcell.EventMouse{
		mouse(10, 10, tcell.ButtonPrimary),
		mouse(8, 13, tcell.ButtonPrimary),
		mouse(8, 13, tcell.ButtonNone),
	} {
		quit, err := app.HandleEvent(ev)
		require.NoError(t, err)
		require.False(t, quit)
	}

	cam := app.Controller().Camera
	assert.Equal(t, 2.0, cam.ScrollX)
	assert.Equal(t, -3.0, cam.ScrollY)
	assert.Equal(t, viewport.DragIdle, app.Controller().State())
	assert.Zero(t, app.board.Len(), "a drag does not place")
}

func TestClickPlacesOnLandOnly(t *testing.T) {
	app, _ := newApp(t, 0, 0)
	app.HandleEvent(mouse(40, 12, tcell.ButtonPrimary))
	app.HandleEvent(mouse(40, 12, tcell.ButtonNone))

	cell := app.Tiler().Pick(app.Controller().Camera, 40.5, 12.5)
	require.Equal(t, viewport.TerrainLand, cell.Terrain)
	_, ok := app.board.At(cell.X, cell.Y)
	assert.True(t, ok)

	water, _ := newApp(t, -30, 5)
	water.HandleEvent(mouse(40, 12, tcell.ButtonPrimary))
	water.HandleEvent(mouse(40, 12, tcell.ButtonNone))
	assert.Zero(t, water.board.Len())
	assert.Contains(t, water.status, "water")

	hover, ok := water.Hover()
	require.True(t, ok)
	assert.Equal(t, viewport.TerrainWater, hover.Terrain)
}

func TestWheelZoom(t *testing.T) {
	app, _ := newApp(t, 0, 0)
	app.HandleEvent(mouse(5, 5, tcell.WheelUp))
	assert.InDelta(t, 1.1, app.Controller().Camera.Zoom, 1e-9)
	app.HandleEvent(mouse(5, 5, tcell.WheelDown))
	app.HandleEvent(mouse(5, 5, tcell.WheelDown))
	assert.InDelta(t, 0.9, app.Controller().Camera.Zoom, 1e-9)
}

func TestStatusRowEndsDrag(t *testing.T) {
	app, _ := newApp(t, 0, 0)
	app.HandleEvent(mouse(10, 10, tcell.ButtonPrimary))
	app.HandleEvent(mouse(10, 24, tcell.ButtonPrimary))
	assert.Equal(t, viewport.DragIdle, app.Controller().State())
	assert.Zero(t, app.Controller().Camera.ScrollY)
}

func TestKeys(t *testing.T) {
	app, ss := newApp(t, 0, 0)

	quit, err := app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, "no store configured", app.status)

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	assert.InDelta(t, 1.1, app.Controller().Camera.Zoom, 1e-9)

	app.Draw()
	var status []rune
	for x := 0; x < 4; x++ {
		r, _, _, _ := ss.GetContent(x, 24)
		status = append(status, r)
	}
	assert.Equal(t, "zoom", string(status))

	quit, _ = app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.True(t, quit)
}

func TestSaveToStore(t *testing.T) {
	store, err := placement.NewJSONStore(filepath.Join(t.TempDir(), "boards.json"))
	require.NoError(t, err)

	app, _ := newApp(t, 0, 0)
	app.opts.Store = store
	app.HandleEvent(mouse(40, 12, tcell.ButtonPrimary))
	app.HandleEvent(mouse(40, 12, tcell.ButtonNone))
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))

	objs, err := store.LoadBoard("term")
	require.NoError(t, err)
	assert.Len(t, objs, 1)
}

func TestCellStyleWaterAnimates(t *testing.T) {
	cell := viewport.GridCell{Terrain: viewport.TerrainWater}
	_, g0 := CellStyle(cell, 0)
	_, g1 := CellStyle(cell, 500*time.Millisecond)
	assert.NotEqual(t, g0, g1)

	_, again := CellStyle(cell, 0)
	assert.Equal(t, g0, again)
}

func TestEraseOnSecondaryRelease(t *testing.T) {
	app, _ := newApp(t, 0, 0)
	app.HandleEvent(mouse(40, 12, tcell.ButtonPrimary))
	app.HandleEvent(mouse(40, 12, tcell.ButtonNone))
	require.Equal(t, 1, app.board.Len())

	app.HandleEvent(mouse(40, 12, tcell.ButtonSecondary))
	app.HandleEvent(mouse(41, 12, tcell.ButtonSecondary))
	assert.Equal(t, 1, app.board.Len(), "holding the button does not erase")

	app.HandleEvent(mouse(40, 12, tcell.ButtonNone))
	assert.Zero(t, app.board.Len())
	assert.Contains(t, app.status, "removed")
}

func TestResizeTooSmallKeepsTiler(t *testing.T) {
	app, ss := newApp(t, 0, 0)
	before := app.Tiler()

	ss.SetSize(80, 1)
	quit, err := app.HandleEvent(tcell.NewEventResize(80, 1))
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Same(t, before, app.Tiler())
	assert.Contains(t, app.status, "screen too small")
	app.Draw()

	ss.SetSize(100, 30)
	_, err = app.HandleEvent(tcell.NewEventResize(100, 30))
	require.NoError(t, err)
	assert.Equal(t, 100.0, app.Tiler().Config().ViewportWidth)
	assert.Equal(t, 29.0, app.Tiler().Config().ViewportHeight)
	assert.Empty(t, app.status)
}
