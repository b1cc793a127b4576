package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/neha-pm/npc-learn/internal/storage"
	"github.com/neha-pm/npc-learn/pkg/wire"
)

// Reseeder restocks the world after a reset; the sim ticker implements
// it.
type Reseeder interface {
	Seed(ctx context.Context) error
}

// Broadcaster pushes frames to all stream subscribers.
type Broadcaster interface {
	Broadcast(payload any)
}

// ResetHandler serves POST /v1/reset: a world-wide clear. The clear is
// persisted first; only then is the RESET frame broadcast, so clients
// that reload immediately see the fresh roster.
type ResetHandler struct {
	store    storage.WorldStore
	hub      Broadcaster
	reseeder Reseeder
	logger   *slog.Logger
}

func NewResetHandler(store storage.WorldStore, hub Broadcaster, reseeder Reseeder, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{
		store:    store,
		hub:      hub,
		reseeder: reseeder,
		logger:   logger,
	}
}

func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error("Failed to clear world", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to clear world")
		return
	}

	if h.reseeder != nil {
		if err := h.reseeder.Seed(r.Context()); err != nil {
			h.logger.Error("Failed to reseed world", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "failed to reseed world")
			return
		}
	}

	h.hub.Broadcast(wire.NewResetFrame())
	h.logger.Info("World reset")
	w.WriteHeader(http.StatusNoContent)
}
