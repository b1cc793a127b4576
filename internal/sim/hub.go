// Package sim contains worldd's live side: the websocket hub that fans
// events out to connected clients, and the ticker that drives the
// guests' behavior.
package sim

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks stream subscribers and broadcasts frames to all of them.
// Clients never send anything; a failed write drops the subscriber.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*subscriber
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]*subscriber),
		logger: logger,
	}
}

// Add registers a connection and returns its subscriber id.
func (h *Hub) Add(conn *websocket.Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.subs[id] = &subscriber{conn: conn}
	h.mu.Unlock()
	h.logger.Debug("stream subscriber added", "subscriber", id)
	return id
}

// Remove unregisters a connection.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if ok {
		_ = sub.conn.Close()
		h.logger.Debug("stream subscriber removed", "subscriber", id)
	}
}

// Count reports the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast marshals the payload once and writes it to every
// subscriber. Subscribers whose write fails are dropped.
func (h *Hub) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload", "error", err)
		return
	}

	h.mu.Lock()
	targets := make(map[string]*subscriber, len(h.subs))
	for id, sub := range h.subs {
		targets[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range targets {
		if err := sub.send(data); err != nil {
			h.logger.Info("dropping stream subscriber", "subscriber", id, "error", err)
			h.Remove(id)
		}
	}
}
