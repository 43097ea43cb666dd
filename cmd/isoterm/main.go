package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/settings"
	"github.com/1siamBot/isogrid/engine/term"
)

func main() {
	configPath := flag.String("config", settings.DefaultPath, "settings file")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// the terminal is owned by tcell; stray log lines would corrupt it
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	s, err := settings.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	cam, err := s.NewCamera()
	if err != nil {
		fatal(err)
	}
	store, err := s.OpenStore()
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	board := placement.NewBoard()
	if err := board.Load(store, s.Store.Board); err != nil && !errors.Is(err, placement.ErrBoardNotFound) {
		fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal(err)
	}
	if err := screen.Init(); err != nil {
		fatal(err)
	}

	app, err := term.NewApp(screen, term.Options{
		Viewport:      s.Viewport,
		Camera:        cam,
		WheelSense:    s.Camera.WheelSense,
		WheelStep:     s.Camera.WheelStep,
		DragThreshold: 1,
		Board:         board,
		Store:         store,
		BoardName:     s.Store.Board,
		ObjectKind:    placement.DefaultKind,
	})
	if err != nil {
		screen.Fini()
		fatal(err)
	}
	err = app.Run()
	screen.Fini()
	if err != nil {
		fatal(err)
	}
}

// fatal reports to stderr even when logs are discarded.
func fatal(err error) {
	log.SetOutput(os.Stderr)
	log.Fatal(err)
}
