package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/neha-pm/npc-learn/pkg/world"
)

// Recaller fetches an NPC's remembered items on first interaction and
// caches them on the record. Later interactions reuse the cache until a
// reset destroys the record; no query is ever issued for an identifier
// the user never touched.
type Recaller struct {
	api    *API
	store  *world.Store
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[int]chan struct{}
}

// NewRecaller wires a recaller to the API and the state store.
func NewRecaller(api *API, store *world.Store, logger *slog.Logger) *Recaller {
	return &Recaller{
		api:      api,
		store:    store,
		logger:   logger,
		inflight: make(map[int]chan struct{}),
	}
}

// Recall returns the memories for one NPC, querying the world service
// only when the record has no cache yet. Concurrent calls for the same
// identifier share a single query: followers wait for the leader's
// result instead of returning an empty cache. The response updates only
// the record's memory field; if a reset removed the record while the
// query was in flight, the result is dropped.
func (r *Recaller) Recall(ctx context.Context, id int) ([]string, error) {
	if n, ok := r.store.Get(id); ok && n.Memories != nil {
		return n.Memories, nil
	}

	r.mu.Lock()
	if ch, ok := r.inflight[id]; ok {
		r.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		// The leader has finished. On success the cache is now set and
		// the re-entry returns it; on failure it issues a fresh query.
		return r.Recall(ctx, id)
	}
	ch := make(chan struct{})
	r.inflight[id] = ch
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inflight, id)
		r.mu.Unlock()
		close(ch)
	}()

	memories, err := r.api.Recall(ctx, id)
	if err != nil {
		return nil, err
	}
	if memories == nil {
		memories = []string{}
	}
	if !r.store.SetMemories(id, memories) {
		r.logger.Debug("recall response for a removed record dropped", "id", id)
	}
	return memories, nil
}
