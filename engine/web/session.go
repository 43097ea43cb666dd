package web

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"

	"github.com/1siamBot/isogrid/engine/placement"
	"github.com/1siamBot/isogrid/engine/viewport"
)

// Session is one browser viewport. Its controller is only touched from
// the connection's read goroutine.
type Session struct {
	server    *Server
	ctrl      *viewport.Controller
	board     *placement.Board
	boardName string

	hover    viewport.GridCell
	hasHover bool
}

// serveSession runs a session until the socket closes.
func (s *Server) serveSession(ws *websocket.Conn, boardName string) {
	ctrl, err := s.settings.NewController()
	if err != nil {
		log.Printf("web: new controller: %v", err)
		ws.Close()
		return
	}
	sess := &Session{
		server:    s,
		ctrl:      ctrl,
		board:     s.Board(boardName),
		boardName: boardName,
	}

	conn := NewConnection(ws)
	go conn.WritePump()

	if err := conn.SendMessage(sess.Frame()); err != nil {
		log.Printf("web: initial frame: %v", err)
	}
	conn.ReadPump(sess)
}

// HandleMessage applies one client event and answers with a frame.
func (sess *Session) HandleMessage(conn *Connection, message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		_ = conn.SendMessage(ErrorMessage{Type: MessageError, Error: "malformed message"})
		return
	}
	if err := sess.Apply(msg); err != nil {
		_ = conn.SendMessage(ErrorMessage{Type: MessageError, Error: err.Error()})
		return
	}
	if err := conn.SendMessage(sess.Frame()); err != nil {
		log.Printf("web: frame: %v", err)
	}
}

// Apply feeds one event into the controller or the board. Hover follows
// the messages that carry a pointer position.
func (sess *Session) Apply(msg ClientMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	switch msg.Type {
	case MessagePointerDown:
		sess.ctrl.PointerDown(msg.X, msg.Y)
	case MessagePointerMove:
		sess.ctrl.PointerMove(msg.X, msg.Y)
	case MessagePointerUp:
		sess.ctrl.PointerUp()
		return nil
	case MessagePointerLeave:
		sess.ctrl.PointerLeave()
		sess.hasHover = false
		return nil
	case MessageWheel:
		sess.ctrl.Wheel(msg.DeltaY)
		return nil
	case MessageClick:
		return sess.place(msg)
	case MessageErase:
		cell := sess.server.tiler.Pick(sess.ctrl.Camera, msg.X, msg.Y)
		if sess.board.Remove(cell.X, cell.Y) {
			sess.save()
		}
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	sess.hover = sess.server.tiler.Pick(sess.ctrl.Camera, msg.X, msg.Y)
	sess.hasHover = true
	return nil
}

func (sess *Session) place(msg ClientMessage) error {
	cell := sess.server.tiler.Pick(sess.ctrl.Camera, msg.X, msg.Y)
	sess.hover, sess.hasHover = cell, true
	if _, err := sess.board.Place(cell, msg.Kind); err != nil {
		return err
	}
	sess.save()
	return nil
}

func (sess *Session) save() {
	if sess.server.store == nil {
		return
	}
	if err := sess.board.Save(sess.server.store, sess.boardName); err != nil {
		log.Printf("web: save board %q: %v", sess.boardName, err)
	}
}

// Frame snapshots the session for drawing.
func (sess *Session) Frame() FrameMessage {
	cam := sess.ctrl.Camera
	tl := sess.server.tiler
	win := tl.Window(cam)

	f := FrameMessage{
		Type:    MessageFrame,
		Camera:  cam,
		Drag:    sess.ctrl.State().String(),
		Window:  win,
		Cells:   make([]viewport.GridCell, 0, win.Size*win.Size),
		Objects: sess.board.Within(win),
	}
	for cell := range tl.VisibleCells(cam) {
		f.Cells = append(f.Cells, cell)
	}
	if sess.hasHover {
		h := sess.hover
		f.Hover = &h
	}
	if f.Objects == nil {
		f.Objects = []placement.Object{}
	}
	return f
}
