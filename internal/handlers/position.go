package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/neha-pm/npc-learn/internal/storage"
	"github.com/neha-pm/npc-learn/pkg/wire"
)

// PositionHandler serves POST /v1/position: fire-and-forget persistence
// of a user drag placement.
type PositionHandler struct {
	store  storage.WorldStore
	logger *slog.Logger
}

func NewPositionHandler(store storage.WorldStore, logger *slog.Logger) *PositionHandler {
	return &PositionHandler{
		store:  store,
		logger: logger,
	}
}

func (h *PositionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req wire.PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid position payload")
		return
	}

	if err := h.store.SavePosition(r.Context(), req.ID, req.X, req.Y); err != nil {
		h.logger.Error("Failed to persist position", "id", req.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to persist position")
		return
	}

	h.logger.Debug("Position persisted", "id", req.ID, "x", req.X, "y", req.Y)
	w.WriteHeader(http.StatusNoContent)
}
