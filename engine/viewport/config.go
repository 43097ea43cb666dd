package viewport

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is matched by every ConfigurationError via errors.Is.
var ErrInvalidConfig = errors.New("viewport: invalid configuration")

// ConfigurationError reports a single rejected configuration field.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("viewport: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Axis selects which grid coordinate the water policy thresholds on.
type Axis uint8

const (
	AxisRow    Axis = iota // worldY
	AxisColumn             // worldX
)

// Edge selects which end of the axis holds the water band.
type Edge uint8

const (
	// EdgeFar puts water above N - floor(N*fraction).
	EdgeFar Edge = iota
	// EdgeNear puts water below floor(N*fraction).
	EdgeNear
)

// WaterPolicy decides which cells classify as water.
type WaterPolicy struct {
	Axis      Axis `json:"axis"`
	Edge      Edge `json:"edge"`
	Inclusive bool `json:"inclusive"`
}

// Config describes the tile geometry and classification of a viewport.
type Config struct {
	TileWidth      float64     `json:"tile_width"`
	TileHeight     float64     `json:"tile_height"`
	VisibleTiles   int         `json:"visible_tiles"`  // N, the window is N x N
	WaterFraction  float64     `json:"water_fraction"` // 0..1
	ViewportWidth  float64     `json:"viewport_width"` // pixels
	ViewportHeight float64     `json:"viewport_height"`
	Water          WaterPolicy `json:"water"`
	JitterPeriod   int         `json:"jitter_period"` // 0 disables variants
}

// DefaultConfig returns the stock 64x32 tile configuration.
func DefaultConfig() Config {
	return Config{
		TileWidth:      64,
		TileHeight:     32,
		VisibleTiles:   30,
		WaterFraction:  0.2,
		ViewportWidth:  1280,
		ViewportHeight: 720,
		JitterPeriod:   4,
	}
}

// Validate rejects configurations that would render a degenerate grid.
func (c Config) Validate() error {
	if !(c.TileWidth > 0) {
		return &ConfigurationError{"tile width", c.TileWidth, "must be positive"}
	}
	if !(c.TileHeight > 0) {
		return &ConfigurationError{"tile height", c.TileHeight, "must be positive"}
	}
	if c.VisibleTiles <= 0 {
		return &ConfigurationError{"visible tiles", c.VisibleTiles, "must be positive"}
	}
	if math.IsNaN(c.WaterFraction) || c.WaterFraction < 0 || c.WaterFraction > 1 {
		return &ConfigurationError{"water fraction", c.WaterFraction, "must be within [0, 1]"}
	}
	if !(c.ViewportWidth > 0) {
		return &ConfigurationError{"viewport width", c.ViewportWidth, "must be positive"}
	}
	if !(c.ViewportHeight > 0) {
		return &ConfigurationError{"viewport height", c.ViewportHeight, "must be positive"}
	}
	if c.JitterPeriod < 0 {
		return &ConfigurationError{"jitter period", c.JitterPeriod, "must not be negative"}
	}
	if c.Water.Axis > AxisColumn {
		return &ConfigurationError{"water axis", c.Water.Axis, "unknown axis"}
	}
	if c.Water.Edge > EdgeNear {
		return &ConfigurationError{"water edge", c.Water.Edge, "unknown edge"}
	}
	return nil
}
