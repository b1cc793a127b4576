package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStore(mr.Addr(), logger)
	return store, mr
}

func floatPtr(v float64) *float64 { return &v }

func TestRedisStore_SaveAndList(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	rows := []wire.SnapshotRow{
		{ID: 1, Name: "Dwight", Zone: "BUFFET"},
		{ID: 2, Name: "Pam", X: floatPtr(30), Y: floatPtr(12)},
		{ID: 3, Name: "Creed"},
	}
	for _, row := range rows {
		if err := store.SaveNPC(ctx, row); err != nil {
			t.Fatalf("save npc %d: %v", row.ID, err)
		}
	}

	listed, err := store.ListNPCs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(listed))
	}

	byID := make(map[int]wire.SnapshotRow)
	for _, row := range listed {
		byID[row.ID] = row
	}
	if byID[1].Zone != "BUFFET" || byID[1].Name != "Dwight" {
		t.Errorf("unexpected row 1: %+v", byID[1])
	}
	if !byID[2].HasCoords() || *byID[2].X != 30 {
		t.Errorf("row 2 lost its coordinates: %+v", byID[2])
	}
	if byID[3].HasCoords() || byID[3].Zone != "" {
		t.Errorf("row 3 should be free-roaming: %+v", byID[3])
	}
}

func TestRedisStore_SavePositionClearsZone(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	if err := store.SaveNPC(ctx, wire.SnapshotRow{ID: 5, Name: "Jim", Zone: "BAR"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SavePosition(ctx, 5, 44, 9); err != nil {
		t.Fatalf("save position: %v", err)
	}

	rows, err := store.ListNPCs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Zone != "" {
		t.Errorf("explicit placement should clear the zone, got %q", row.Zone)
	}
	if !row.HasCoords() || *row.X != 44 || *row.Y != 9 {
		t.Errorf("position not persisted: %+v", row)
	}
}

func TestRedisStore_SaveZoneClearsCoords(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	if err := store.SavePosition(ctx, 6, 10, 10); err != nil {
		t.Fatalf("save position: %v", err)
	}
	if err := store.SaveZone(ctx, 6, "GARDEN"); err != nil {
		t.Fatalf("save zone: %v", err)
	}

	rows, err := store.ListNPCs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows[0].Zone != "GARDEN" {
		t.Errorf("zone not persisted: %+v", rows[0])
	}
	if rows[0].HasCoords() {
		t.Errorf("zone assignment should drop explicit coordinates: %+v", rows[0])
	}
}

func TestRedisStore_Memories(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	memories, err := store.Memories(ctx, 7)
	if err != nil {
		t.Fatalf("memories: %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("expected no memories yet, got %v", memories)
	}

	if err := store.AddMemory(ctx, 7, "met Dwight"); err != nil {
		t.Fatalf("add memory: %v", err)
	}
	if err := store.AddMemory(ctx, 7, "danced"); err != nil {
		t.Fatalf("add memory: %v", err)
	}

	memories, err = store.Memories(ctx, 7)
	if err != nil {
		t.Fatalf("memories: %v", err)
	}
	if len(memories) != 2 || memories[0] != "met Dwight" || memories[1] != "danced" {
		t.Errorf("unexpected memories %v", memories)
	}
}

func TestRedisStore_Clear(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	if err := store.SaveNPC(ctx, wire.SnapshotRow{ID: 1, Name: "Dwight", Zone: "BUFFET"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.AddMemory(ctx, 1, "met Pam"); err != nil {
		t.Fatalf("add memory: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	rows, err := store.ListNPCs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty roster after clear, got %+v", rows)
	}
	memories, err := store.Memories(ctx, 1)
	if err != nil {
		t.Fatalf("memories: %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("expected no memories after clear, got %v", memories)
	}
}
