// Package events broadcasts engine events (imports, task transitions,
// definition changes) to editor collaborators over WebSocket.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/caxton/internal/logging"
)

// Type identifies the kind of engine event.
type Type string

const (
	TypeImportCompleted   Type = "import.completed"
	TypeTaskAdvanced      Type = "task.advanced"
	TypeDefinitionChanged Type = "definition.changed"
)

// Event is one broadcastable engine event.
type Event struct {
	Type      Type                   `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// New builds an event stamped with the current time.
func New(eventType Type, payload map[string]interface{}) Event {
	return Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Hub fans events out to all connected clients. A slow or dead client is
// dropped rather than allowed to stall the broadcast.
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
	logger  logging.Logger
}

// NewHub creates an event hub
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger.WithComponent("events"),
	}
}

// Broadcast sends the event to every connected client.
func (h *Hub) Broadcast(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error(ctx, err, "Failed to encode event", "type", event.Type)
		return
	}

	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mutex.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, data)
		cancel()

		if err != nil {
			h.logger.Warn(ctx, err, "Dropping unresponsive event client")
			h.remove(conn)
			_ = conn.Close(websocket.StatusPolicyViolation, "write timeout")
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[conn] = struct{}{}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	delete(h.clients, conn)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mutex.Unlock()

	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
