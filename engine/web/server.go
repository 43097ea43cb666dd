// Package web serves the viewport to browsers: a JSON API for stateless
// queries and a websocket per browser viewport that owns its camera.
package web

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/settings"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// Server holds the shared tiler, boards and store.
type Server struct {
	settings settings.Settings
	tiler    *viewport.Tiler
	store    placement.Store // may be nil

	mu     sync.Mutex
	boards map[string]*placement.Board

	upgrader websocket.Upgrader
}

// NewServer validates the settings and builds the shared tiler.
func NewServer(s settings.Settings, store placement.Store) (*Server, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	tl, err := s.NewTiler()
	if err != nil {
		return nil, err
	}
	return &Server{
		settings: s,
		tiler:    tl,
		store:    store,
		boards:   make(map[string]*placement.Board),
		upgrader: websocket.Upgrader{
			// The browser client is served from another origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Board returns the named board, loading it from the store on first use.
func (s *Server) Board(name string) *placement.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.boards[name]; ok {
		return b
	}
	b := placement.NewBoard()
	if s.store != nil {
		err := b.Load(s.store, name)
		if err != nil && !errors.Is(err, placement.ErrBoardNotFound) {
			log.Printf("web: load board %q: %v", name, err)
		}
	}
	s.boards[name] = b
	return b
}

// Routes configures all routes and returns the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/config", s.getConfig)
		r.Get("/cells", s.getCells)
		r.Get("/project/{x}/{y}", s.getProject)
		r.Get("/pick", s.getPick)
		r.Get("/boards/{name}", s.getBoard)
	})
	r.Get("/ws", s.serveWS)

	return r
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"viewport": s.tiler.Config(),
		"camera":   s.settings.Camera,
	})
}

// cameraFromQuery reads scrollX, scrollY and zoom over the default camera.
// Zoom is clamped like a wheel update, never rejected.
func (s *Server) cameraFromQuery(r *http.Request) (viewport.CameraState, error) {
	cam, err := s.settings.NewCamera()
	if err != nil {
		return cam, err
	}
	q := r.URL.Query()
	if cam.ScrollX, err = floatParam(q.Get("scrollX"), cam.ScrollX); err != nil {
		return cam, errors.New("invalid scrollX")
	}
	if cam.ScrollY, err = floatParam(q.Get("scrollY"), cam.ScrollY); err != nil {
		return cam, errors.New("invalid scrollY")
	}
	if v := q.Get("zoom"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cam, errors.New("invalid zoom")
		}
		cam = cam.WithZoom(z)
	}
	return cam, nil
}

// floatParam parses a finite float, returning def for an empty value.
func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, err
	}
	if !finite(f) {
		return def, errors.New("not finite")
	}
	return f, nil
}

func (s *Server) getCells(w http.ResponseWriter, r *http.Request) {
	cam, err := s.cameraFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	win := s.tiler.Window(cam)
	resp := CellsResponse{
		Camera: cam,
		Window: win,
		Cells:  make([]viewport.GridCell, 0, win.Size*win.Size),
	}
	for cell := range s.tiler.VisibleCells(cam) {
		resp.Cells = append(resp.Cells, cell)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	x, err := strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(chi.URLParam(r, "y"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	respondJSON(w, http.StatusOK, s.tiler.ProjectToScreen(x, y))
}

func (s *Server) getPick(w http.ResponseWriter, r *http.Request) {
	cam, err := s.cameraFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	x, errX := floatParam(r.URL.Query().Get("x"), math.NaN())
	y, errY := floatParam(r.URL.Query().Get("y"), math.NaN())
	if errX != nil || errY != nil || math.IsNaN(x) || math.IsNaN(y) {
		respondError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	respondJSON(w, http.StatusOK, s.tiler.Pick(cam, x, y))
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Board(chi.URLParam(r, "name")).Objects())
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("board")
	if name == "" {
		name = s.settings.Store.Board
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: upgrade: %v", err)
		return
	}
	s.serveSession(ws, name)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("web: encode: %v", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
