// Package world holds the client-side reconciliation core: the owned
// store of NPC display state fed by snapshots and stream updates, the
// deterministic anti-overlap offset, and the bounded activity feed.
package world

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/neha-pm/npc-learn/pkg/wire"
	"github.com/neha-pm/npc-learn/pkg/zone"
)

// Bounded magnitude of the free-roaming perturbation, in viewport units.
const wobbleMax = 3.0

// edge margin kept between NPCs and the viewport border
const margin = 1.0

// Store is the single source of truth for on-screen NPC state. All
// mutation goes through its methods; renderers read copies via Read.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	width  float64
	height float64
	npcs   map[int]*NPC
	rng    *rand.Rand
}

// NewStore creates a store for a viewport of the given size.
func NewStore(width, height float64) *Store {
	return &Store{
		width:  width,
		height: height,
		npcs:   make(map[int]*NPC),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// Resize updates the viewport bounds. Zone-anchored records are
// re-anchored against the new layout; free-roaming and user-placed
// records keep their position, clamped into the new bounds.
func (s *Store) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width = width
	s.height = height
	anchors, _ := zone.Layout(width, height)
	for _, n := range s.npcs {
		if n.Zone != "" {
			anchor := anchors[n.Zone]
			dx, dy := Offset(n.ID)
			n.X = s.clampX(anchor.X + dx)
			n.Y = s.clampY(anchor.Y + dy)
			continue
		}
		n.X = s.clampX(n.X)
		n.Y = s.clampY(n.Y)
	}
}

// Size returns the current viewport bounds.
func (s *Store) Size() (width, height float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// ApplySnapshot replaces the entire map with records computed from the
// roster. A snapshot is authoritative and total: nothing from the prior
// state survives. Explicit coordinates are used verbatim, a recognized
// zone places the record at its anchor, and anything else lands at a
// pseudo-random in-bounds position. The per-identifier offset applies
// in all three cases.
func (s *Store) ApplySnapshot(rows []wire.SnapshotRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	anchors, _ := zone.Layout(s.width, s.height)
	fresh := make(map[int]*NPC, len(rows))
	for _, row := range rows {
		n := &NPC{ID: row.ID, Name: row.Name}
		dx, dy := Offset(row.ID)

		z, known := zone.Parse(row.Zone)
		switch {
		case row.HasCoords():
			n.X = *row.X + dx
			n.Y = *row.Y + dy
		case known:
			anchor := anchors[z]
			n.X = anchor.X + dx
			n.Y = anchor.Y + dy
			n.Zone = z
			n.Annotation = z.Glyph()
		default:
			sx, sy := s.scatter(row.ID)
			n.X = sx + dx
			n.Y = sy + dy
		}
		n.X = s.clampX(n.X)
		n.Y = s.clampY(n.Y)
		fresh[n.ID] = n
	}
	s.npcs = fresh
}

// ApplyUpdate applies one incremental change. Unknown identifiers are
// lazily created at a random in-bounds position. The position rule is a
// decision table on the zone field:
//
//	zone present and recognized  -> anchor + Offset(id), glyph annotation
//	zone absent or unrecognized  -> bounded random wobble, action annotation
//
// A recognized zone overrides any previous position, including one set
// by a user drag. Updates are applied in arrival order; there is no
// timestamp reconciliation.
func (s *Store) ApplyUpdate(u wire.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.npcs[u.ID]
	if !ok {
		sx, sy := s.scatter(u.ID)
		n = &NPC{ID: u.ID, X: sx, Y: sy}
		s.npcs[u.ID] = n
	}
	if u.Name != "" {
		n.Name = u.Name
	}

	if z, known := zone.Parse(u.Zone); known {
		anchor, _ := zone.Anchor(z, s.width, s.height)
		dx, dy := Offset(u.ID)
		n.X = s.clampX(anchor.X + dx)
		n.Y = s.clampY(anchor.Y + dy)
		n.Zone = z
		n.Annotation = z.Glyph()
		return
	}

	n.X = s.clampX(n.X + (s.rng.Float64()*2-1)*wobbleMax)
	n.Y = s.clampY(n.Y + (s.rng.Float64()*2-1)*wobbleMax)
	n.Zone = ""
	n.Annotation = u.Action
}

// ApplyReset clears the map entirely. Reloading is the caller's second
// step; the view intentionally goes blank until the snapshot returns.
func (s *Store) ApplyReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.npcs = make(map[int]*NPC)
}

// Read returns a copy of the current records, ordered by identifier so
// rendering is stable. Mutating the result does not affect the store.
func (s *Store) Read() []NPC {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]NPC, 0, len(s.npcs))
	for _, n := range s.npcs {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of one record.
func (s *Store) Get(id int) (NPC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.npcs[id]
	if !ok {
		return NPC{}, false
	}
	return *n, true
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.npcs)
}

// SetPosition records an explicit user placement. It bypasses the zone
// and offset logic entirely and clears the zone assignment, so a later
// resize will not snap the record away from where the user put it.
// Dragging an identifier that no longer exists is a no-op.
func (s *Store) SetPosition(id int, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.npcs[id]
	if !ok {
		return
	}
	n.X = s.clampX(x)
	n.Y = s.clampY(y)
	n.Zone = ""
}

// SetMemories caches recalled memories on a record. It touches only the
// memory field and reports false when the record was removed by an
// intervening reset, in which case the response is dropped.
func (s *Store) SetMemories(id int, memories []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.npcs[id]
	if !ok {
		return false
	}
	n.Memories = append([]string(nil), memories...)
	return true
}

func (s *Store) clampX(x float64) float64 {
	return clamp(x, margin, s.width-margin)
}

func (s *Store) clampY(y float64) float64 {
	return clamp(y, margin, s.height-margin)
}

// scatter produces the pseudo-random fallback placement for records
// with neither coordinates nor a recognized zone. It is keyed on the
// identifier alone so that re-applying a snapshot is idempotent.
func (s *Store) scatter(id int) (x, y float64) {
	h := uint64(id)*0x9e3779b97f4a7c15 + 0xbf58476d1ce4e5b9
	h ^= h >> 31
	h *= 0x94d049bb133111eb
	h ^= h >> 27
	fx := float64(h&0xffff) / 0x10000
	fy := float64((h>>16)&0xffff) / 0x10000
	return margin + fx*(s.width-2*margin), margin + fy*(s.height-2*margin)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
