package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/neha-pm/npc-learn/internal/storage"
	"github.com/neha-pm/npc-learn/pkg/wire"
)

// RecallHandler serves GET /v1/recall?id=: the remembered items of one
// NPC, fetched lazily by the client on first interaction.
type RecallHandler struct {
	store  storage.WorldStore
	logger *slog.Logger
}

func NewRecallHandler(store storage.WorldStore, logger *slog.Logger) *RecallHandler {
	return &RecallHandler{
		store:  store,
		logger: logger,
	}
}

func (h *RecallHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "missing or invalid id")
		return
	}

	memories, err := h.store.Memories(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load memories", "id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "failed to load memories")
		return
	}
	if memories == nil {
		memories = []string{}
	}

	if err := json.NewEncoder(w).Encode(wire.RecallResponse{Memories: memories}); err != nil {
		h.logger.Error("Error encoding recall response", "error", err)
	}
}
