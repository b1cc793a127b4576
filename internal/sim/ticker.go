package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/neha-pm/npc-learn/internal/storage"
	"github.com/neha-pm/npc-learn/pkg/wire"
	"github.com/neha-pm/npc-learn/pkg/zone"
)

// Default guest roster for a fresh world.
var defaultGuests = []string{
	"Dwight", "Pam", "Jim", "Angela", "Kevin",
	"Oscar", "Stanley", "Phyllis", "Creed", "Meredith",
}

// One action per zone, plus free-roaming filler.
var zoneActions = map[zone.ID]string{
	zone.Buffet:     "eat",
	zone.Bar:        "drink",
	zone.Dancefloor: "dance",
	zone.Stage:      "sing",
	zone.Garden:     "stroll",
	zone.Lobby:      "chat",
}

var wanderActions = []string{"mingle", "laugh", "wander", "people-watch"}

// Ticker drives the party: every interval it picks one guest and either
// sends them to a zone or lets them wander, persisting the change and
// broadcasting the update frame. When two guests end up in the same
// zone they remember meeting each other.
type Ticker struct {
	store    storage.WorldStore
	hub      *Hub
	logger   *slog.Logger
	interval time.Duration
	rng      *rand.Rand

	mu     sync.Mutex
	guests map[int]*guest
}

type guest struct {
	id   int
	name string
	zone zone.ID
}

// NewTicker creates a ticker over the given store and hub.
func NewTicker(store storage.WorldStore, hub *Hub, interval time.Duration, logger *slog.Logger) *Ticker {
	return &Ticker{
		store:    store,
		hub:      hub,
		logger:   logger,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		guests:   make(map[int]*guest),
	}
}

// Seed loads the persisted roster, creating the default guest list when
// the world is empty. Safe to call after a reset.
func (t *Ticker) Seed(ctx context.Context) error {
	rows, err := t.store.ListNPCs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.guests = make(map[int]*guest)

	if len(rows) == 0 {
		for i, name := range defaultGuests {
			id := i + 1
			row := wire.SnapshotRow{ID: id, Name: name}
			if err := t.store.SaveNPC(ctx, row); err != nil {
				return fmt.Errorf("failed to seed guest %s: %w", name, err)
			}
			t.guests[id] = &guest{id: id, name: name}
		}
		t.logger.Info("seeded default guest roster", "guests", len(t.guests))
		return nil
	}

	for _, row := range rows {
		g := &guest{id: row.ID, name: row.Name}
		if z, ok := zone.Parse(row.Zone); ok {
			g.zone = z
		}
		t.guests[row.ID] = g
	}
	t.logger.Info("loaded guest roster", "guests", len(t.guests))
	return nil
}

// Run ticks until the context is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("ticker stopped")
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick advances one guest. Exported so tests can drive the simulation
// without waiting on the wall clock.
func (t *Ticker) Tick(ctx context.Context) {
	t.mu.Lock()
	g := t.pickGuestLocked()
	if g == nil {
		t.mu.Unlock()
		return
	}

	var update wire.Update
	if t.rng.Float64() < 0.6 {
		zones := zone.All()
		z := zones[t.rng.Intn(len(zones))]
		g.zone = z
		update = wire.Update{ID: g.id, Name: g.name, Action: zoneActions[z], Zone: string(z)}

		companion := t.companionLocked(g, z)
		t.mu.Unlock()

		if err := t.store.SaveZone(ctx, g.id, string(z)); err != nil {
			t.logger.Warn("failed to persist zone", "id", g.id, "error", err)
		}
		if companion != nil {
			t.remember(ctx, g, companion, z)
		}
	} else {
		g.zone = ""
		update = wire.Update{ID: g.id, Name: g.name, Action: wanderActions[t.rng.Intn(len(wanderActions))]}
		t.mu.Unlock()
	}

	t.hub.Broadcast(update)
}

// pickGuestLocked returns a uniformly random guest.
func (t *Ticker) pickGuestLocked() *guest {
	if len(t.guests) == 0 {
		return nil
	}
	n := t.rng.Intn(len(t.guests))
	for _, g := range t.guests {
		if n == 0 {
			return g
		}
		n--
	}
	return nil
}

// companionLocked finds another guest already in the zone, if any.
func (t *Ticker) companionLocked(g *guest, z zone.ID) *guest {
	for _, other := range t.guests {
		if other.id != g.id && other.zone == z {
			return other
		}
	}
	return nil
}

func (t *Ticker) remember(ctx context.Context, g, companion *guest, z zone.ID) {
	at := z.Label()
	if err := t.store.AddMemory(ctx, g.id, fmt.Sprintf("met %s at the %s", companion.name, at)); err != nil {
		t.logger.Warn("failed to record memory", "id", g.id, "error", err)
	}
	if err := t.store.AddMemory(ctx, companion.id, fmt.Sprintf("met %s at the %s", g.name, at)); err != nil {
		t.logger.Warn("failed to record memory", "id", companion.id, "error", err)
	}
}
