package world

import (
	"fmt"
	"sync"

	"github.com/neha-pm/npc-learn/pkg/zone"
)

// Feed is a bounded, most-recent-first log of human-readable event
// summaries. It is independent of the spatial state: a reset clears the
// store but the feed keeps its history.
type Feed struct {
	mu       sync.Mutex
	capacity int
	entries  []string
}

// NewFeed creates a feed that keeps at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{capacity: capacity}
}

// Add prepends an entry, evicting the oldest once the bound is reached.
func (f *Feed) Add(entry string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]string{entry}, f.entries...)
	if len(f.entries) > f.capacity {
		f.entries = f.entries[:f.capacity]
	}
}

// Entries returns a copy of the log, most recent first.
func (f *Feed) Entries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.entries...)
}

// Len reports the number of entries currently held.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// FeedEntry formats the summary line for an update that carried a
// recognized zone: "<zone> → <display name or identifier>: <glyph>".
func FeedEntry(z zone.ID, displayName string) string {
	return fmt.Sprintf("%s → %s: %s", z, displayName, z.Glyph())
}
