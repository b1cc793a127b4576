package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/neha-pm/npc-learn/internal/sim"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler serves GET /v1/stream: upgrades the connection and
// subscribes it to the hub. Clients send nothing; the read loop exists
// only to detect disconnects.
type StreamHandler struct {
	hub    *sim.Hub
	logger *slog.Logger
}

func NewStreamHandler(hub *sim.Hub, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: logger,
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Stream upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	id := h.hub.Add(conn)
	defer h.hub.Remove(id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
