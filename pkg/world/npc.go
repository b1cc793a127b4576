package world

import (
	"strconv"

	"github.com/neha-pm/npc-learn/pkg/zone"
)

// NPC is the display state for one character. Identifiers are assigned
// by the world service and never reused within a session.
type NPC struct {
	ID         int
	Name       string
	X          float64
	Y          float64
	Zone       zone.ID // empty means free-roaming
	Annotation string  // transient bubble: zone glyph or raw action label
	Memories   []string
}

// DisplayName returns the NPC's name, falling back to its identifier.
func (n NPC) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return strconv.Itoa(n.ID)
}
