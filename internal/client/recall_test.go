package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neha-pm/npc-learn/pkg/wire"
	"github.com/neha-pm/npc-learn/pkg/world"
)

func recallServer(t *testing.T, queries *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries.Add(1)
		_ = json.NewEncoder(w).Encode(wire.RecallResponse{Memories: []string{"met Dwight", "danced"}})
	}))
}

func TestRecallerCachesPerIdentifier(t *testing.T) {
	var queries atomic.Int64
	server := recallServer(t, &queries)
	defer server.Close()

	store := world.NewStore(120, 40)
	store.ApplySnapshot([]wire.SnapshotRow{{ID: 7, Zone: "BAR"}, {ID: 9}})

	rec := NewRecaller(NewAPI(server.URL, time.Second, testLogger()), store, testLogger())

	first, err := rec.Recall(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, []string{"met Dwight", "danced"}) {
		t.Errorf("unexpected memories %v", first)
	}

	// A second hover before any record change reuses the cache.
	before, _ := store.Get(7)
	second, err := rec.Recall(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(second, first) {
		t.Errorf("cache returned different memories: %v vs %v", second, first)
	}
	if queries.Load() != 1 {
		t.Errorf("expected exactly one query for id 7, got %d", queries.Load())
	}

	after, _ := store.Get(7)
	if after.ID != before.ID || after.X != before.X || after.Y != before.Y {
		t.Error("recall must never mutate identifier or position fields")
	}
}

func TestRecallerNoQueryWithoutInteraction(t *testing.T) {
	var queries atomic.Int64
	server := recallServer(t, &queries)
	defer server.Close()

	store := world.NewStore(120, 40)
	store.ApplySnapshot([]wire.SnapshotRow{{ID: 7}, {ID: 9}})

	rec := NewRecaller(NewAPI(server.URL, time.Second, testLogger()), store, testLogger())

	if _, err := rec.Recall(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Identifier 9 was never interacted with: no query may be issued.
	if queries.Load() != 1 {
		t.Errorf("expected 1 query total, got %d", queries.Load())
	}
	if n, _ := store.Get(9); n.Memories != nil {
		t.Errorf("id 9 gained memories without interaction: %v", n.Memories)
	}
}

func TestRecallerConcurrentCallsShareOneQuery(t *testing.T) {
	var queries atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries.Add(1)
		close(started)
		<-release
		_ = json.NewEncoder(w).Encode(wire.RecallResponse{Memories: []string{"met Dwight", "danced"}})
	}))
	defer server.Close()

	store := world.NewStore(120, 40)
	store.ApplySnapshot([]wire.SnapshotRow{{ID: 7}})
	rec := NewRecaller(NewAPI(server.URL, 5*time.Second, testLogger()), store, testLogger())

	// A hover prefetch is in flight when the click arrives.
	leader := make(chan []string, 1)
	go func() {
		mems, _ := rec.Recall(context.Background(), 7)
		leader <- mems
	}()
	<-started

	follower := make(chan []string, 1)
	go func() {
		mems, _ := rec.Recall(context.Background(), 7)
		follower <- mems
	}()

	close(release)
	want := []string{"met Dwight", "danced"}
	for _, got := range []chan []string{leader, follower} {
		if mems := <-got; !reflect.DeepEqual(mems, want) {
			t.Errorf("expected %v, got %v", want, mems)
		}
	}
	if queries.Load() != 1 {
		t.Errorf("expected the racing calls to share one query, got %d", queries.Load())
	}
}

func TestRecallerDropsResponseAfterReset(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_ = json.NewEncoder(w).Encode(wire.RecallResponse{Memories: []string{"stale"}})
	}))
	defer server.Close()

	store := world.NewStore(120, 40)
	store.ApplySnapshot([]wire.SnapshotRow{{ID: 7}})
	rec := NewRecaller(NewAPI(server.URL, 5*time.Second, testLogger()), store, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = rec.Recall(context.Background(), 7)
	}()

	store.ApplyReset()
	close(release)
	<-done

	if store.Len() != 0 {
		t.Error("recall response resurrected a record removed by reset")
	}
}
