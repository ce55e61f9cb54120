package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// Snapshot is the device state a reconciliation run works against.
// It is built once per run and never updated afterwards.
type Snapshot struct {
	Vlans   entities.VlanRegistry
	Ports   entities.PortRegistry
	Skipped []SkippedRecord
}

// SkippedRecord is a well-formed row the registries cannot index, such as a
// VLAN entry that carries a list or range of VLAN IDs
type SkippedRecord struct {
	Path   entities.ResourcePath `json:"path"`
	ID     string                `json:"id"`
	Reason string                `json:"reason"`
}

var (
	vlanRequiredFields = []string{".id", "vlan-ids", "bridge", "current-tagged", "current-untagged"}
	portRequiredFields = []string{".id", "interface", "frame-types", "pvid"}
)

// BuildSnapshot materializes both registries from raw table rows
func BuildSnapshot(vlanRows, portRows []entities.RawRecord) (Snapshot, error) {
	vlans, skipped, err := BuildVlanRegistry(vlanRows)
	if err != nil {
		return Snapshot{}, err
	}
	ports, err := BuildPortRegistry(portRows)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Vlans: vlans, Ports: ports, Skipped: skipped}, nil
}

// BuildVlanRegistry indexes the bridge VLAN table by VLAN ID.
// The comment field is kept only when the device reported it.
func BuildVlanRegistry(rows []entities.RawRecord) (entities.VlanRegistry, []SkippedRecord, error) {
	records := make([]entities.VlanRecord, 0, len(rows))
	seen := make(map[int]string, len(rows))
	var skipped []SkippedRecord

	for idx, row := range rows {
		if err := requireFields(entities.BridgeVLANPath, idx, row, vlanRequiredFields); err != nil {
			return entities.VlanRegistry{}, nil, err
		}

		rawID := strings.TrimSpace(row["vlan-ids"])
		if strings.ContainsAny(rawID, ",-") {
			skipped = append(skipped, SkippedRecord{
				Path:   entities.BridgeVLANPath,
				ID:     row[".id"],
				Reason: fmt.Sprintf("vlan-ids %q covers more than one VLAN", rawID),
			})
			continue
		}
		vlanID, err := strconv.Atoi(rawID)
		if err != nil {
			return entities.VlanRegistry{}, nil, &entities.MalformedRecordError{
				Path: entities.BridgeVLANPath, Index: idx, Field: "vlan-ids",
				Details: fmt.Sprintf("is not a number: %q", rawID),
			}
		}
		if other, dup := seen[vlanID]; dup {
			return entities.VlanRegistry{}, nil, &entities.MalformedRecordError{
				Path: entities.BridgeVLANPath, Index: idx, Field: "vlan-ids",
				Details: fmt.Sprintf("duplicates VLAN %d already held by %s", vlanID, other),
			}
		}
		seen[vlanID] = row[".id"]

		rec := entities.VlanRecord{
			VlanID:          vlanID,
			InternalID:      row[".id"],
			Bridge:          row["bridge"],
			CurrentTagged:   entities.ParseInterfaceSet(row["current-tagged"]),
			CurrentUntagged: entities.ParseInterfaceSet(row["current-untagged"]),
		}
		if comment, ok := row["comment"]; ok {
			rec.Comment = &comment
		}
		records = append(records, rec)
	}

	return entities.NewVlanRegistry(records...), skipped, nil
}

// BuildPortRegistry indexes the bridge port table by interface name
func BuildPortRegistry(rows []entities.RawRecord) (entities.PortRegistry, error) {
	records := make([]entities.PortRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for idx, row := range rows {
		if err := requireFields(entities.BridgePortPath, idx, row, portRequiredFields); err != nil {
			return entities.PortRegistry{}, err
		}
		frameTypes, err := entities.ParseFrameTypes(row["frame-types"])
		if err != nil {
			return entities.PortRegistry{}, &entities.MalformedRecordError{
				Path: entities.BridgePortPath, Index: idx, Field: "frame-types", Details: err.Error(),
			}
		}
		pvid, err := strconv.Atoi(strings.TrimSpace(row["pvid"]))
		if err != nil {
			return entities.PortRegistry{}, &entities.MalformedRecordError{
				Path: entities.BridgePortPath, Index: idx, Field: "pvid",
				Details: fmt.Sprintf("is not a number: %q", row["pvid"]),
			}
		}
		iface := row["interface"]
		if _, dup := seen[iface]; dup {
			return entities.PortRegistry{}, &entities.MalformedRecordError{
				Path: entities.BridgePortPath, Index: idx, Field: "interface",
				Details: fmt.Sprintf("%s appears more than once", iface),
			}
		}
		seen[iface] = struct{}{}

		records = append(records, entities.PortRecord{
			Interface:  iface,
			InternalID: row[".id"],
			FrameTypes: frameTypes,
			PVID:       pvid,
		})
	}

	return entities.NewPortRegistry(records...), nil
}

func requireFields(path entities.ResourcePath, idx int, row entities.RawRecord, fields []string) error {
	for _, field := range fields {
		if _, ok := row[field]; !ok {
			return &entities.MalformedRecordError{Path: path, Index: idx, Field: field, Details: "is missing"}
		}
	}
	return nil
}
