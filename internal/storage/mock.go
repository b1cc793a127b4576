package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/neha-pm/npc-learn/pkg/wire"
)

// MockStore is an in-memory WorldStore for tests.
type MockStore struct {
	mu       sync.Mutex
	npcs     map[int]wire.SnapshotRow
	memories map[int][]string

	// PingErr, when set, is returned by Ping.
	PingErr error
}

var _ WorldStore = (*MockStore)(nil)

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		npcs:     make(map[int]wire.SnapshotRow),
		memories: make(map[int][]string),
	}
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) ListNPCs(ctx context.Context) ([]wire.SnapshotRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]wire.SnapshotRow, 0, len(m.npcs))
	for _, row := range m.npcs {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *MockStore) SaveNPC(ctx context.Context, row wire.SnapshotRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.npcs[row.ID] = row
	return nil
}

func (m *MockStore) SavePosition(ctx context.Context, id int, x, y float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.npcs[id]
	row.ID = id
	row.X = &x
	row.Y = &y
	row.Zone = ""
	m.npcs[id] = row
	return nil
}

func (m *MockStore) SaveZone(ctx context.Context, id int, zone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.npcs[id]
	row.ID = id
	row.X = nil
	row.Y = nil
	row.Zone = zone
	m.npcs[id] = row
	return nil
}

func (m *MockStore) Memories(ctx context.Context, id int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.memories[id]...), nil
}

func (m *MockStore) AddMemory(ctx context.Context, id int, memory string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memories[id] = append(m.memories[id], memory)
	return nil
}

func (m *MockStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.npcs = make(map[int]wire.SnapshotRow)
	m.memories = make(map[int][]string)
	return nil
}
