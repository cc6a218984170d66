package filesync

import (
	"encoding/json"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

// Snapshot is the combined sync/export/import file payload: all three
// collections in one object, distinct from the store's per-key layout.
type Snapshot struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Activities    []models.Activity    `json:"activities"`
	Contacts      []models.Contact     `json:"contacts"`
}

// snapshotWire carries the legacy field names older exports used. The
// aliases are normalized away right here at the file-format boundary;
// they never reach the rest of the module.
type snapshotWire struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Activities    []models.Activity    `json:"activities"`
	Contacts      []models.Contact     `json:"contacts"`
	Ops           []models.Opportunity `json:"ops"`
	Acts          []models.Activity    `json:"acts"`
}

// IsEmpty reports whether the snapshot carries no records at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Opportunities) == 0 && len(s.Activities) == 0 && len(s.Contacts) == 0
}

// Stats summarizes one side of a reconciliation for the conflict prompt.
type Stats struct {
	Opportunities int
	Activities    int
}

// Stats returns the snapshot's record counts.
func (s Snapshot) Stats() Stats {
	return Stats{Opportunities: len(s.Opportunities), Activities: len(s.Activities)}
}

// ParseSnapshot decodes file content into a Snapshot. Malformed or empty
// content yields an empty snapshot, never an error: a broken sync file
// must not surface as a fatal condition. Unknown fields are ignored and
// the legacy ops/acts names are accepted when the canonical ones are
// absent.
func ParseSnapshot(data []byte) Snapshot {
	var wire snapshotWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Snapshot{
			Opportunities: []models.Opportunity{},
			Activities:    []models.Activity{},
			Contacts:      []models.Contact{},
		}
	}
	snap := Snapshot{
		Opportunities: wire.Opportunities,
		Activities:    wire.Activities,
		Contacts:      wire.Contacts,
	}
	if snap.Opportunities == nil {
		snap.Opportunities = wire.Ops
	}
	if snap.Activities == nil {
		snap.Activities = wire.Acts
	}
	if snap.Opportunities == nil {
		snap.Opportunities = []models.Opportunity{}
	}
	if snap.Activities == nil {
		snap.Activities = []models.Activity{}
	}
	if snap.Contacts == nil {
		snap.Contacts = []models.Contact{}
	}
	return snap
}

// EncodeSnapshot serializes a snapshot in the canonical file format.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Opportunities == nil {
		snap.Opportunities = []models.Opportunity{}
	}
	if snap.Activities == nil {
		snap.Activities = []models.Activity{}
	}
	if snap.Contacts == nil {
		snap.Contacts = []models.Contact{}
	}
	return json.MarshalIndent(snap, "", "  ")
}
