package web

import (
	"fmt"
	"math"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// Inbound message types.
const (
	MessagePointerDown  = "pointerdown"
	MessagePointerMove  = "pointermove"
	MessagePointerUp    = "pointerup"
	MessagePointerLeave = "pointerleave"
	MessageWheel        = "wheel"
	MessageClick        = "click"
	MessageErase        = "erase"
)

// Outbound message types.
const (
	MessageFrame = "frame"
	MessageError = "error"
)

// ClientMessage is a pointer or wheel event in display pixels.
type ClientMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
	Kind   string  `json:"kind,omitempty"` // object kind for click
}

// MaxCoordinate bounds client positions and wheel deltas, in display pixels.
const MaxCoordinate = 1e6

// Validate rejects positions and deltas that would push the camera
// to a non-finite scroll.
func (m ClientMessage) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"x", m.X}, {"y", m.Y}, {"deltaY", m.DeltaY}} {
		if !finite(f.v) || math.Abs(f.v) > MaxCoordinate {
			return fmt.Errorf("%s out of range", f.name)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FrameMessage is everything the browser needs to draw one frame.
type FrameMessage struct {
	Type    string               `json:"type"`
	Camera  viewport.CameraState `json:"camera"`
	Drag    string               `json:"drag"`
	Hover   *viewport.GridCell   `json:"hover,omitempty"`
	Window  viewport.Window      `json:"window"`
	Cells   []viewport.GridCell  `json:"cells"`
	Objects []placement.Object   `json:"objects"`
}

// ErrorMessage reports a rejected action, such as placing on water.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// CellsResponse is the body of GET /api/cells.
type CellsResponse struct {
	Camera viewport.CameraState `json:"camera"`
	Window viewport.Window      `json:"window"`
	Cells  []viewport.GridCell  `json:"cells"`
}
