package viewport

import "math"

// CameraState is the scroll and zoom of one viewport.
// Scroll is in scene pixels; zoom is clamped to [MinZoom, MaxZoom].
// Tiler.Window pins scrolls beyond MaxWindowCoord tiles to that bound.
type CameraState struct {
	ScrollX float64 `json:"scroll_x"`
	ScrollY float64 `json:"scroll_y"`
	Zoom    float64 `json:"zoom"`
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`
}

// NewCameraState creates a camera at the origin with the given zoom range.
// The initial zoom is clamped into the range.
func NewCameraState(zoom, minZoom, maxZoom float64) (CameraState, error) {
	if !(minZoom > 0) {
		return CameraState{}, &ConfigurationError{"min zoom", minZoom, "must be positive"}
	}
	if !(maxZoom >= minZoom) || math.IsInf(maxZoom, 1) {
		return CameraState{}, &ConfigurationError{"max zoom", maxZoom, "must be finite and not below min zoom"}
	}
	if math.IsNaN(zoom) {
		return CameraState{}, &ConfigurationError{"zoom", zoom, "must be a number"}
	}
	c := CameraState{MinZoom: minZoom, MaxZoom: maxZoom}
	c.Zoom = c.clampZoom(zoom)
	return c, nil
}

// Drag moves the scroll opposite to the pointer delta. No clamping.
func (c CameraState) Drag(dx, dy float64) CameraState {
	c.ScrollX -= dx
	c.ScrollY -= dy
	return c
}

// ZoomBy applies one wheel step: zoom - wheelDeltaY*sensitivity, clamped.
func (c CameraState) ZoomBy(wheelDeltaY, sensitivity float64) CameraState {
	return c.WithZoom(c.Zoom - wheelDeltaY*sensitivity)
}

// WithZoom sets the zoom, clamped to the camera's range. NaN is ignored.
func (c CameraState) WithZoom(z float64) CameraState {
	if math.IsNaN(z) {
		return c
	}
	c.Zoom = c.clampZoom(z)
	return c
}

func (c CameraState) clampZoom(z float64) float64 {
	return math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// SceneToDisplay maps a scene point to display pixels. Zoom is applied
// around the viewport center, the way the scroll is centered.
func (c CameraState) SceneToDisplay(p ScreenPoint, viewW, viewH float64) ScreenPoint {
	cx, cy := viewW/2, viewH/2
	return ScreenPoint{
		X: (p.X-c.ScrollX-cx)*c.Zoom + cx,
		Y: (p.Y-c.ScrollY-cy)*c.Zoom + cy,
	}
}

// DisplayToScene is the inverse of SceneToDisplay.
func (c CameraState) DisplayToScene(p ScreenPoint, viewW, viewH float64) ScreenPoint {
	cx, cy := viewW/2, viewH/2
	return ScreenPoint{
		X: (p.X-cx)/c.Zoom + cx + c.ScrollX,
		Y: (p.Y-cy)/c.Zoom + cy + c.ScrollY,
	}
}
