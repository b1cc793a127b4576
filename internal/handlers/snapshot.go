// Package handlers implements worldd's HTTP surface: the snapshot
// roster, position persistence, memory recall, world reset and the
// websocket stream.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/neha-pm/npc-learn/internal/storage"
	"github.com/neha-pm/npc-learn/pkg/wire"
)

// SnapshotHandler serves GET /v1/snapshot: the full roster, one row per
// NPC. Idempotent; clients call it at startup and after every reset.
type SnapshotHandler struct {
	store  storage.WorldStore
	logger *slog.Logger
}

func NewSnapshotHandler(store storage.WorldStore, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		store:  store,
		logger: logger,
	}
}

func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, err := h.store.ListNPCs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list roster", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to load roster")
		return
	}
	if rows == nil {
		rows = []wire.SnapshotRow{}
	}

	if err := json.NewEncoder(w).Encode(rows); err != nil {
		h.logger.Error("Error encoding snapshot response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(wire.ErrorResponse{Error: msg}); err != nil {
		logger.Error("Error encoding error response", "error", err)
	}
}
