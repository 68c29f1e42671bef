package infra

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteTimeout = 5 * time.Second
	// wsSendBuffer is the number of events queued per client before it is
	// considered stalled and dropped.
	wsSendBuffer = 32
)

// Event is the envelope pushed to back-office websocket clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// wsClient is one connection and its outgoing queue, drained by writePump.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts events to every connected admin websocket.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
}

// NewHub creates a hub accepting connections from the given origins.
// An empty list accepts any origin.
func NewHub(origins []string) *Hub {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeWS upgrades the request and keeps the connection registered until the
// peer closes it.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws: upgrade failed")
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	defer h.drop(c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish queues event for every connected client and never blocks: a client
// whose queue is full is dropped.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Payload: payload, At: time.Now()})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("event", event).Str("remote", c.conn.RemoteAddr().String()).Msg("ws: client stalled, dropping")
			h.remove(c)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	h.remove(c)
	h.mu.Unlock()
}

// remove unregisters c and stops its writer. Callers hold h.mu.
func (h *Hub) remove(c *wsClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// writePump owns all writes to the connection. It closes the connection when
// the queue is closed or a write fails, which also ends the read loop.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
