// Package term draws the isometric grid in a terminal as styled boxes and
// drives the camera from terminal mouse events.
package term

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// Terminal cells per tile: a tile is 4 columns wide and 2 rows tall, which
// keeps rhombi roughly square on common fonts.
const (
	TileCols = 4
	TileRows = 2
)

// Options configures an App.
type Options struct {
	Viewport      viewport.Config // tile size and viewport size are replaced
	Camera        viewport.CameraState
	WheelSense    float64
	WheelStep     float64 // wheel delta per notch
	DragThreshold int     // in terminal cells
	Board         *placement.Board
	Store         placement.Store // may be nil
	BoardName     string
	ObjectKind    string
}

// App is the terminal host: it owns the screen, the controller and the board.
type App struct {
	screen tcell.Screen
	opts   Options
	tiler  *viewport.Tiler
	ctrl   *viewport.Controller
	board  *placement.Board

	hover    viewport.GridCell
	hasHover bool
	status   string

	buttons        tcell.ButtonMask
	pressX, pressY int
	pressed        bool

	start time.Time
	now   func() time.Time
}

// NewApp sizes a tiler to the screen and wires the controller.
func NewApp(screen tcell.Screen, opts Options) (*App, error) {
	if opts.Board == nil {
		opts.Board = placement.NewBoard()
	}
	a := &App{
		screen: screen,
		opts:   opts,
		ctrl:   viewport.NewController(opts.Camera, opts.WheelSense),
		board:  opts.Board,
		now:    time.Now,
	}
	a.start = a.now()
	if err := a.resize(); err != nil {
		return nil, err
	}
	return a, nil
}

// Controller exposes the camera controller.
func (a *App) Controller() *viewport.Controller { return a.ctrl }

// Tiler returns the tiler sized to the current screen.
func (a *App) Tiler() *viewport.Tiler { return a.tiler }

// Hover returns the cell under the mouse.
func (a *App) Hover() (viewport.GridCell, bool) { return a.hover, a.hasHover }

// mapRows is the number of rows used by the grid; the last row is status.
func (a *App) mapRows() int {
	_, h := a.screen.Size()
	return h - 1
}

func (a *App) resize() error {
	w, _ := a.screen.Size()
	cfg := a.opts.Viewport
	cfg.TileWidth, cfg.TileHeight = TileCols, TileRows
	cfg.ViewportWidth, cfg.ViewportHeight = float64(w), float64(a.mapRows())
	tl, err := viewport.NewTiler(cfg)
	if err != nil {
		return fmt.Errorf("term: screen too small: %w", err)
	}
	a.tiler = tl
	return nil
}

// Run polls events until the user quits.
func (a *App) Run() error {
	a.screen.EnableMouse()
	defer a.screen.DisableMouse()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		quit, err := a.HandleEvent(ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		a.Draw()
	}
}

// HandleEvent applies one terminal event. It reports whether to quit.
func (a *App) HandleEvent(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		// a screen too small to draw keeps the previous tiler
		if err := a.resize(); err != nil {
			a.status = err.Error()
		} else {
			a.status = ""
		}
	case *tcell.EventKey:
		return a.handleKey(ev), nil
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return false, nil
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyRune && ev.Rune() == 's':
		a.save()
	case ev.Key() == tcell.KeyRune && ev.Rune() == '+':
		a.ctrl.Wheel(-a.opts.WheelStep)
	case ev.Key() == tcell.KeyRune && ev.Rune() == '-':
		a.ctrl.Wheel(a.opts.WheelStep)
	}
	return false
}

// trackedButtons are the buttons whose release is an action.
const trackedButtons = tcell.ButtonPrimary | tcell.ButtonSecondary

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()
	fx, fy := float64(x), float64(y)

	if y >= a.mapRows() {
		if a.ctrl.State() == viewport.DragDragging {
			a.ctrl.PointerLeave()
		}
		a.pressed = false
		a.hasHover = false
		a.buttons = btn & trackedButtons
		return
	}

	down := btn&tcell.ButtonPrimary != 0
	wasDown := a.buttons&tcell.ButtonPrimary != 0
	eraseUp := a.buttons&tcell.ButtonSecondary != 0 && btn&tcell.ButtonSecondary == 0
	a.buttons = btn & trackedButtons

	switch {
	case down && !wasDown:
		a.ctrl.PointerDown(fx, fy)
		a.pressX, a.pressY, a.pressed = x, y, true
	case down:
		a.ctrl.PointerMove(fx, fy)
	case wasDown:
		a.ctrl.PointerMove(fx, fy)
		a.ctrl.PointerUp()
		if a.pressed && a.withinThreshold(x, y) {
			a.place(x, y)
		}
		a.pressed = false
	}

	if btn&tcell.WheelUp != 0 {
		a.ctrl.Wheel(-a.opts.WheelStep)
	}
	if btn&tcell.WheelDown != 0 {
		a.ctrl.Wheel(a.opts.WheelStep)
	}
	if eraseUp {
		cell := a.pick(x, y)
		if a.board.Remove(cell.X, cell.Y) {
			a.status = fmt.Sprintf("removed (%d, %d)", cell.X, cell.Y)
		}
	}

	a.hover, a.hasHover = a.pick(x, y), true
}

func (a *App) withinThreshold(x, y int) bool {
	dx, dy := x-a.pressX, y-a.pressY
	t := a.opts.DragThreshold
	return dx*dx+dy*dy <= t*t
}

// pick samples the middle of a terminal cell.
func (a *App) pick(x, y int) viewport.GridCell {
	return a.tiler.Pick(a.ctrl.Camera, float64(x)+0.5, float64(y)+0.5)
}

func (a *App) place(x, y int) {
	cell := a.pick(x, y)
	obj, err := a.board.Place(cell, a.opts.ObjectKind)
	if err != nil {
		a.status = err.Error()
		return
	}
	a.status = fmt.Sprintf("placed %s at (%d, %d)", obj.Kind, obj.X, obj.Y)
}

func (a *App) save() {
	if a.opts.Store == nil {
		a.status = "no store configured"
		return
	}
	if err := a.board.Save(a.opts.Store, a.opts.BoardName); err != nil {
		log.Printf("term: save board %q: %v", a.opts.BoardName, err)
		a.status = "save failed"
		return
	}
	a.status = fmt.Sprintf("saved %d objects", a.board.Len())
}

// Draw renders the grid and status line and shows the screen.
func (a *App) Draw() {
	a.screen.Clear()
	a.drawGrid(a.now().Sub(a.start))
	a.drawStatus()
	a.screen.Show()
}

// PutString writes s at (x, y), clipped to width columns.
func PutString(s tcell.Screen, x, y, width int, str string, style tcell.Style) {
	str = runewidth.Truncate(str, width, "…")
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (a *App) drawStatus() {
	w, h := a.screen.Size()
	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, h-1, ' ', nil, style)
	}

	cam := a.ctrl.Camera
	line := fmt.Sprintf("zoom %.2f | %s | objects %d", cam.Zoom, a.ctrl.State(), a.board.Len())
	if a.hasHover {
		line = fmt.Sprintf("(%d, %d) %s | %s", a.hover.X, a.hover.Y, a.hover.Terrain, line)
	}
	if a.status != "" {
		line += " | " + a.status
	}
	PutString(a.screen, 0, h-1, w, line, style)
}
