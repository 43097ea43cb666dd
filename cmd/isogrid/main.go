package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/isogrid/engine/input"
	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/render"
	"github.com/1siamBot/isogrid/engine/settings"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// Game implements ebiten.Game interface
type Game struct {
	settings settings.Settings
	tiler    *viewport.Tiler
	renderer *render.IsoRenderer
	input    *input.InputState
	ctrl     *viewport.Controller

	board *placement.Board
	store placement.Store

	start  time.Time
	hover  viewport.GridCell
	status string
}

func NewGame(s settings.Settings, tilesDir string) (*Game, error) {
	tl, err := s.NewTiler()
	if err != nil {
		return nil, err
	}
	ctrl, err := s.NewController()
	if err != nil {
		return nil, err
	}
	store, err := s.OpenStore()
	if err != nil {
		return nil, err
	}

	board := placement.NewBoard()
	if err := board.Load(store, s.Store.Board); err != nil && !errors.Is(err, placement.ErrBoardNotFound) {
		return nil, err
	}

	cfg := tl.Config()
	tiles := render.LoadTileSet(tilesDir, cfg.JitterPeriod, int(cfg.TileWidth), int(cfg.TileHeight))
	return &Game{
		settings: s,
		tiler:    tl,
		renderer: render.NewIsoRenderer(tl, tiles),
		input: input.NewInputState(int(cfg.ViewportWidth), int(cfg.ViewportHeight),
			s.Camera.DragThresholdPx, s.Camera.WheelStep),
		ctrl:  ctrl,
		board: board,
		store: store,
		start: time.Now(),
	}, nil
}

func (g *Game) Update() error {
	g.input.Update()

	action := g.input.Dispatch(g.ctrl)
	g.hover = g.tiler.Pick(g.ctrl.Camera, float64(g.input.MouseX), float64(g.input.MouseY))

	switch action {
	case input.ActionClick:
		g.place()
	case input.ActionErase:
		if g.board.Remove(g.hover.X, g.hover.Y) {
			g.save()
		}
	}
	return nil
}

func (g *Game) place() {
	if _, err := g.board.Place(g.hover, placement.DefaultKind); err != nil {
		g.status = err.Error()
		return
	}
	g.status = ""
	g.save()
}

func (g *Game) save() {
	if err := g.board.Save(g.store, g.settings.Store.Board); err != nil {
		log.Printf("isogrid: save board: %v", err)
		g.status = "save failed"
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.BackgroundColor)

	cam := g.ctrl.Camera
	g.renderer.DrawCells(screen, cam, time.Since(g.start))
	if g.input.Inside {
		g.renderer.DrawHighlight(screen, cam, g.hover)
	}
	g.renderer.DrawObjects(screen, cam, g.board.Within(g.tiler.Window(cam)))

	g.renderer.DrawHUD(screen,
		fmt.Sprintf("FPS: %.0f | Tile: (%d, %d) %s | Objects: %d",
			ebiten.ActualFPS(), g.hover.X, g.hover.Y, g.hover.Terrain, g.board.Len()),
		fmt.Sprintf("Zoom: %.2fx | Scroll: (%.0f, %.0f) | [Drag] Pan [Scroll] Zoom [LClick] Place [RClick] Erase",
			cam.Zoom, cam.ScrollX, cam.ScrollY),
		g.status,
	)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.tiler.Config()
	return int(cfg.ViewportWidth), int(cfg.ViewportHeight)
}

func main() {
	configPath := flag.String("config", settings.DefaultPath, "settings file")
	tilesDir := flag.String("tiles", "assets/tiles", "directory of tile PNGs")
	flag.Parse()

	s, err := settings.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	game, err := NewGame(s, *tilesDir)
	if err != nil {
		log.Fatal(err)
	}
	defer game.store.Close()

	ebiten.SetWindowSize(int(s.Viewport.ViewportWidth), int(s.Viewport.ViewportHeight))
	ebiten.SetWindowTitle("isogrid")
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
