package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/isogrid/engine/viewport"
)

// InputState tracks mouse state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY    int
	Inside            bool // cursor within the window
	LeftJustPressed   bool
	LeftJustReleased  bool
	RightJustReleased bool
	ScrollY           float64 // wheel notches, positive = away from the user

	// Window size used for the Inside test
	ScreenW, ScreenH int

	// Click detection
	PressX, PressY int
	Pressed        bool
	DragThreshold  int
	WheelStep      float64 // wheel delta per notch
}

// Action is what a frame of input asks the host to do beyond camera movement.
type Action uint8

const (
	ActionNone Action = iota
	ActionClick
	ActionErase
)

func NewInputState(screenW, screenH, dragThreshold int, wheelStep float64) *InputState {
	return &InputState{
		ScreenW:       screenW,
		ScreenH:       screenH,
		DragThreshold: dragThreshold,
		WheelStep:     wheelStep,
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.Inside = s.MouseX >= 0 && s.MouseY >= 0 && s.MouseX < s.ScreenW && s.MouseY < s.ScreenH

	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.RightJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight)

	_, s.ScrollY = ebiten.Wheel()
}

// Dispatch feeds the sampled frame into the controller: leave, press,
// move, release, then wheel. A release close to its press is a click.
func (s *InputState) Dispatch(ctrl *viewport.Controller) Action {
	x, y := float64(s.MouseX), float64(s.MouseY)
	action := ActionNone

	if !s.Inside {
		if ctrl.State() == viewport.DragDragging {
			ctrl.PointerLeave()
		}
		s.Pressed = false
	}

	if s.LeftJustPressed && s.Inside {
		ctrl.PointerDown(x, y)
		s.PressX, s.PressY = s.MouseX, s.MouseY
		s.Pressed = true
	}

	ctrl.PointerMove(x, y)

	if s.LeftJustReleased {
		ctrl.PointerUp()
		if s.Pressed && s.withinThreshold() {
			action = ActionClick
		}
		s.Pressed = false
	}
	if s.RightJustReleased && s.Inside && action == ActionNone {
		action = ActionErase
	}

	if s.ScrollY != 0 {
		// wheel up zooms in, like a negative DOM deltaY
		ctrl.Wheel(-s.ScrollY * s.WheelStep)
	}
	return action
}

func (s *InputState) withinThreshold() bool {
	dx := s.MouseX - s.PressX
	dy := s.MouseY - s.PressY
	return dx*dx+dy*dy <= s.DragThreshold*s.DragThreshold
}
