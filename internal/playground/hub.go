package playground

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/cellbind/internal/telemetry"
)

// MessageType identifies a server-to-browser message.
type MessageType string

const (
	// TypeRender carries the new body markup.
	TypeRender MessageType = "render"
	// TypeError carries a failed event's error.
	TypeError MessageType = "error"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type  MessageType `json:"type"`
	HTML  string      `json:"html,omitempty"`
	Error string      `json:"error,omitempty"`
	Code  string      `json:"code,omitempty"`
}

// hub tracks the connected WebSocket clients.
type hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	metrics  *telemetry.Metrics
}

func newHub(metrics *telemetry.Metrics) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local playground
			},
		},
		metrics: metrics,
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.metrics.ClientConnected(1)
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		h.metrics.ClientConnected(-1)
		conn.Close()
	}
}

// send writes msg to one client.
func (h *hub) send(conn *websocket.Conn, msg Message) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// broadcast sends a message to all connected clients, dropping the ones
// that fail.
func (h *hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	var failed []*websocket.Conn
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, client)
		}
	}
	h.writeMu.Unlock()

	for _, client := range failed {
		h.remove(client)
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// close closes all client connections.
func (h *hub) close() {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.remove(client)
	}
}
