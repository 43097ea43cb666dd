package viewport

// DragState is the camera drag state.
type DragState uint8

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// Controller owns the camera of one viewport and turns pointer and wheel
// events into camera updates. It is not safe for concurrent use; hosts
// feed it from a single event loop.
type Controller struct {
	Camera      CameraState
	Sensitivity float64 // zoom change per wheel delta unit

	state            DragState
	anchorX, anchorY float64
}

// NewController returns an idle controller for cam.
func NewController(cam CameraState, sensitivity float64) *Controller {
	return &Controller{Camera: cam, Sensitivity: sensitivity}
}

// State returns the current drag state.
func (c *Controller) State() DragState { return c.state }

// PointerDown starts a drag anchored at the pointer.
func (c *Controller) PointerDown(x, y float64) {
	c.state = DragDragging
	c.anchorX, c.anchorY = x, y
}

// PointerMove drags the camera by the movement since the previous pointer
// position and re-anchors. Reports whether the camera moved.
func (c *Controller) PointerMove(x, y float64) bool {
	if c.state != DragDragging {
		return false
	}
	dx, dy := x-c.anchorX, y-c.anchorY
	c.anchorX, c.anchorY = x, y
	if dx == 0 && dy == 0 {
		return false
	}
	c.Camera = c.Camera.Drag(dx, dy)
	return true
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() { c.state = DragIdle }

// PointerLeave ends a drag when the pointer leaves the surface.
func (c *Controller) PointerLeave() { c.state = DragIdle }

// Wheel applies a wheel step with the controller's sensitivity.
func (c *Controller) Wheel(deltaY float64) {
	c.Camera = c.Camera.ZoomBy(deltaY, c.Sensitivity)
}
