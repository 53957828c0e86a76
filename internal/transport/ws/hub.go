package ws

import (
	"encoding/json"
	"sync"

	"screener/internal/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSubmissionScored MessageType = "submission_scored"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans admin events out to connected admin sockets
type Hub struct {
	admins map[*Connection]bool

	mu  sync.RWMutex
	log logger.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents one admin WebSocket connection
type Connection struct {
	HostID string
	Send   chan []byte
	Hub    *Hub
}

// NewHub creates a new WebSocket hub and starts its event loop
func NewHub(log logger.Logger) *Hub {
	h := &Hub{
		admins:     make(map[*Connection]bool),
		log:        log.WithFields(map[string]interface{}{"component": "ws_hub"}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.admins {
				delete(h.admins, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.admins[conn] = true
			h.mu.Unlock()
			h.log.Info("Admin connected", map[string]interface{}{"host_id": conn.HostID})

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.admins[conn] {
				delete(h.admins, conn)
				close(conn.Send)
				h.log.Info("Admin disconnected", map[string]interface{}{"host_id": conn.HostID})
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.admins {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// AdminCount returns the number of connected admins
func (h *Hub) AdminCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.admins)
}

// BroadcastToAdmins sends a message to every admin (implements service.Broadcaster).
// It never blocks the caller; events are dropped when the hub is saturated.
func (h *Hub) BroadcastToAdmins(msgType string, payload interface{}) {
	data, err := encode(MessageType(msgType), payload)
	if err != nil {
		h.log.WithError(err).Error("Failed to encode admin event", map[string]interface{}{"type": msgType})
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.log.Warn("Admin event dropped, hub is saturated", map[string]interface{}{"type": msgType})
	}
}

// Close disconnects every admin and stops the event loop
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

func encode(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}
