package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxSendChannelSize = 16
)

const EventTypeUploadProgress = "upload_progress"

// Event is an outgoing message to a connected client.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans events out to a user's open connections. A user can hold
// several connections (multiple tabs); each gets every event.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*client]bool)}
}

// HandleConnection registers the connection and starts its pumps. It
// returns immediately; the connection is cleaned up when the peer goes
// away.
func (h *Hub) HandleConnection(userID uint, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan Event, maxSendChannelSize)}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]bool)
	}
	h.clients[userID][c] = true
	h.mu.Unlock()

	go h.writePump(userID, c)
	go h.readPump(userID, c)
}

// Publish sends the event to every connection the user holds. Slow
// consumers are dropped rather than blocking the publisher.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.send <- event:
		default:
			log.Printf("ws: dropping event for slow client of user %d", userID)
		}
	}
}

func (h *Hub) remove(userID uint, c *client) {
	h.mu.Lock()
	if conns, ok := h.clients[userID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	h.mu.Unlock()

	c.conn.Close()
}

func (h *Hub) writePump(userID uint, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(userID, c)
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the progress socket is one-way.
// It exists to notice closes and keep the pong handler serviced.
func (h *Hub) readPump(userID uint, c *client) {
	defer h.remove(userID, c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
