package web

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// MessageHandler handles one inbound text frame.
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// Connection wraps a websocket with a buffered outbound queue. Reads
// happen on the caller's goroutine; writes on WritePump's.
type Connection struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

// ReadPump dispatches messages until the socket closes.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("web: read: %v", err)
			}
			return
		}
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages until Close.
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for {
		select {
		case message := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("web: write: %v", err)
				return
			}
		case <-c.done:
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// SendMessage queues msg as JSON. A full queue drops the client.
func (c *Connection) SendMessage(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		log.Printf("web: send queue full, closing connection")
		c.Close()
	}
	return nil
}

// Close stops the write pump.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
