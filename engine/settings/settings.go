// Package settings loads the isogrid configuration file and applies
// environment overrides.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "isogrid.json"

// Settings holds all host configuration.
type Settings struct {
	Viewport viewport.Config `json:"viewport"`
	Camera   CameraSettings  `json:"camera"`
	Store    StoreSettings   `json:"store"`
	Server   ServerSettings  `json:"server"`
}

// CameraSettings holds the initial zoom, its range and the wheel sensitivity.
type CameraSettings struct {
	Zoom            float64 `json:"zoom"`
	MinZoom         float64 `json:"min_zoom"`
	MaxZoom         float64 `json:"max_zoom"`
	WheelSense      float64 `json:"wheel_sensitivity"`
	WheelStep       float64 `json:"wheel_step"` // wheel delta per notch for hosts with discrete wheels
	DragThresholdPx int     `json:"drag_threshold_px"`
}

// StoreSettings selects the placement store.
type StoreSettings struct {
	Type        string `json:"type"` // "json" or "postgres"
	File        string `json:"file"`
	DatabaseURL string `json:"database_url"`
	Board       string `json:"board"`
}

// ServerSettings configures the browser host.
type ServerSettings struct {
	Addr string `json:"addr"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Viewport: viewport.DefaultConfig(),
		Camera: CameraSettings{
			Zoom:            0.8,
			MinZoom:         0.5,
			MaxZoom:         2,
			WheelSense:      0.001,
			WheelStep:       100,
			DragThresholdPx: 5,
		},
		Store: StoreSettings{
			Type:  "json",
			File:  "boards.json",
			Board: "default",
		},
		Server: ServerSettings{Addr: ":8080"},
	}
}

// Load reads path over the defaults, applies the environment and validates.
// A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("settings: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	s.applyEnv(os.Getenv)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyEnv(getenv func(string) string) {
	if v := getenv("ISOGRID_ADDR"); v != "" {
		s.Server.Addr = v
	}
	if v := getenv("ISOGRID_DB_TYPE"); v != "" {
		s.Store.Type = v
	}
	if v := getenv("ISOGRID_DB_FILE"); v != "" {
		s.Store.File = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		s.Store.DatabaseURL = v
	}
}

// Validate checks the viewport, camera and store sections.
func (s Settings) Validate() error {
	if err := s.Viewport.Validate(); err != nil {
		return err
	}
	if _, err := s.NewCamera(); err != nil {
		return err
	}
	switch s.Store.Type {
	case "json", "postgres":
	default:
		return fmt.Errorf("settings: unknown store type %q", s.Store.Type)
	}
	return nil
}

// NewTiler builds the tiler described by the viewport section.
func (s Settings) NewTiler() (*viewport.Tiler, error) {
	return viewport.NewTiler(s.Viewport)
}

// NewCamera builds the initial camera.
func (s Settings) NewCamera() (viewport.CameraState, error) {
	return viewport.NewCameraState(s.Camera.Zoom, s.Camera.MinZoom, s.Camera.MaxZoom)
}

// NewController builds a controller around a fresh camera.
func (s Settings) NewController() (*viewport.Controller, error) {
	cam, err := s.NewCamera()
	if err != nil {
		return nil, err
	}
	return viewport.NewController(cam, s.Camera.WheelSense), nil
}

// OpenStore opens the configured placement store.
func (s Settings) OpenStore() (placement.Store, error) {
	if s.Store.Type == "postgres" {
		pg, err := placement.NewPostgresStore(s.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	js, err := placement.NewJSONStore(s.Store.File)
	if err != nil {
		return nil, err
	}
	return js, nil
}
