package services

import (
	"context"
	"fmt"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

type write struct {
	kind   entities.IntentKind
	path   entities.ResourcePath
	id     string
	fields []entities.Field
}

// fakeDevice is an in-memory DeviceRepository that behaves like a RouterOS bridge
type fakeDevice struct {
	tables   map[entities.ResourcePath][]entities.RawRecord
	writes   []write
	queries  int
	queryErr error
	writeErr error
	nextID   int
}

func newFakeDevice(vlans, ports []entities.RawRecord) *fakeDevice {
	return &fakeDevice{tables: map[entities.ResourcePath][]entities.RawRecord{
		entities.BridgeVLANPath: vlans,
		entities.BridgePortPath: ports,
	}}
}

func (d *fakeDevice) QueryTable(_ context.Context, path entities.ResourcePath) ([]entities.RawRecord, error) {
	d.queries++
	if d.queryErr != nil {
		return nil, &entities.TransportError{Op: "query", Path: path, Err: d.queryErr}
	}
	rows := make([]entities.RawRecord, 0, len(d.tables[path]))
	for _, row := range d.tables[path] {
		cp := entities.RawRecord{}
		for k, v := range row {
			cp[k] = v
		}
		rows = append(rows, cp)
	}
	return rows, nil
}

func (d *fakeDevice) CreateRecord(_ context.Context, path entities.ResourcePath, fields []entities.Field) error {
	d.writes = append(d.writes, write{kind: entities.IntentCreate, path: path, fields: fields})
	if d.writeErr != nil {
		return &entities.TransportError{Op: "create", Path: path, Err: d.writeErr}
	}
	d.nextID++
	row := entities.RawRecord{
		".id":              fmt.Sprintf("*%X", 0x100+d.nextID),
		"current-tagged":   "",
		"current-untagged": "",
	}
	for _, f := range fields {
		row[f.Name] = f.Value
	}
	d.tables[path] = append(d.tables[path], row)
	return nil
}

func (d *fakeDevice) UpdateRecord(_ context.Context, path entities.ResourcePath, id string, fields []entities.Field) error {
	d.writes = append(d.writes, write{kind: entities.IntentUpdate, path: path, id: id, fields: fields})
	if d.writeErr != nil {
		return &entities.TransportError{Op: "update", Path: path, Err: d.writeErr}
	}
	for _, row := range d.tables[path] {
		if row[".id"] != id {
			continue
		}
		for _, f := range fields {
			row[f.Name] = f.Value
			if f.Name == "tagged" {
				row["current-tagged"] = f.Value
			}
		}
		return nil
	}
	return &entities.TransportError{Op: "update", Path: path, Err: fmt.Errorf("no such item %s", id)}
}

func vlanRow(id, vlanIDs, tagged string) entities.RawRecord {
	return entities.RawRecord{
		".id":              id,
		"vlan-ids":         vlanIDs,
		"bridge":           "bridge",
		"current-tagged":   tagged,
		"current-untagged": "",
	}
}

func portRow(id, iface, frameTypes, pvid string) entities.RawRecord {
	return entities.RawRecord{
		".id":         id,
		"interface":   iface,
		"frame-types": frameTypes,
		"pvid":        pvid,
	}
}
