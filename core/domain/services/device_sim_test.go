package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// simDevice holds raw tables and applies intents the way RouterOS would,
// mirroring configured tagged members into current-tagged.
type simDevice struct {
	vlans  []entities.RawRecord
	ports  []entities.RawRecord
	nextID int
}

func (d *simDevice) snapshot(t *testing.T) Snapshot {
	t.Helper()
	snap, err := BuildSnapshot(d.vlans, d.ports)
	require.NoError(t, err)
	return snap
}

func (d *simDevice) apply(t *testing.T, intents []entities.MutationIntent) {
	t.Helper()
	for _, intent := range intents {
		table := &d.vlans
		if intent.Path == entities.BridgePortPath {
			table = &d.ports
		}
		switch intent.Kind {
		case entities.IntentCreate:
			d.nextID++
			row := entities.RawRecord{
				".id":              fmt.Sprintf("*%d", 100+d.nextID),
				"current-tagged":   "",
				"current-untagged": "",
			}
			for _, f := range intent.Fields {
				row[f.Name] = f.Value
			}
			*table = append(*table, row)
		case entities.IntentUpdate:
			found := false
			for _, row := range *table {
				if row[".id"] != intent.ID {
					continue
				}
				found = true
				for _, f := range intent.Fields {
					row[f.Name] = f.Value
					if f.Name == "tagged" {
						row["current-tagged"] = f.Value
					}
				}
			}
			require.True(t, found, "intent targets unknown record %s", intent.ID)
		}
	}
}
