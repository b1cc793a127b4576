// Package storage persists the worldd roster: NPC identity, last known
// placement, and recalled memories.
package storage

import (
	"context"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

// WorldStore is the persistence surface worldd depends on.
type WorldStore interface {
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error

	// ListNPCs returns the full roster, one row per NPC.
	ListNPCs(ctx context.Context) ([]wire.SnapshotRow, error)

	// SaveNPC upserts a roster entry.
	SaveNPC(ctx context.Context, row wire.SnapshotRow) error

	// SavePosition records an explicit client placement and clears any
	// zone assignment for the NPC.
	SavePosition(ctx context.Context, id int, x, y float64) error

	// SaveZone assigns the NPC to a zone and drops any explicit
	// coordinates, so snapshots place it at the zone anchor.
	SaveZone(ctx context.Context, id int, zone string) error

	// Memories returns the NPC's remembered items, oldest first.
	Memories(ctx context.Context, id int) ([]string, error)

	// AddMemory appends one remembered item.
	AddMemory(ctx context.Context, id int, memory string) error

	// Clear wipes the entire world.
	Clear(ctx context.Context) error
}
