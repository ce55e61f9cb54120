package services

import (
	"context"
	"fmt"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
	"github.com/carlosrabelo/bridgevlan/core/domain/ports"
)

// plannedState serves the device tables with the writes of a dry run applied,
// so later steps of the same run plan against what a real run would leave behind.
// Each table is read from the device once and then only changed in memory.
type plannedState struct {
	repo    ports.DeviceRepository
	tables  map[entities.ResourcePath][]entities.RawRecord
	pending int
}

func newPlannedState(repo ports.DeviceRepository) *plannedState {
	return &plannedState{
		repo:   repo,
		tables: make(map[entities.ResourcePath][]entities.RawRecord),
	}
}

func (p *plannedState) load(ctx context.Context, path entities.ResourcePath) ([]entities.RawRecord, error) {
	if rows, ok := p.tables[path]; ok {
		return rows, nil
	}
	rows, err := p.repo.QueryTable(ctx, path)
	if err != nil {
		return nil, err
	}
	p.tables[path] = copyRows(rows)
	return p.tables[path], nil
}

func (p *plannedState) QueryTable(ctx context.Context, path entities.ResourcePath) ([]entities.RawRecord, error) {
	rows, err := p.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return copyRows(rows), nil
}

// CreateRecord adds the row under a placeholder ID the device never hands out
func (p *plannedState) CreateRecord(ctx context.Context, path entities.ResourcePath, fields []entities.Field) error {
	if _, err := p.load(ctx, path); err != nil {
		return err
	}
	p.pending++
	row := entities.RawRecord{
		".id":              fmt.Sprintf("pending-%d", p.pending),
		"current-tagged":   "",
		"current-untagged": "",
	}
	setFields(row, fields)
	p.tables[path] = append(p.tables[path], row)
	return nil
}

func (p *plannedState) UpdateRecord(ctx context.Context, path entities.ResourcePath, id string, fields []entities.Field) error {
	rows, err := p.load(ctx, path)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row[".id"] == id {
			setFields(row, fields)
			return nil
		}
	}
	return &entities.TransportError{Op: "update", Path: path, Err: fmt.Errorf("no such item %s", id)}
}

// setFields writes the assignments into row. The device derives its
// current-tagged and current-untagged columns from tagged and untagged.
func setFields(row entities.RawRecord, fields []entities.Field) {
	for _, f := range fields {
		row[f.Name] = f.Value
		switch f.Name {
		case "tagged":
			row["current-tagged"] = f.Value
		case "untagged":
			row["current-untagged"] = f.Value
		}
	}
}

func copyRows(rows []entities.RawRecord) []entities.RawRecord {
	out := make([]entities.RawRecord, 0, len(rows))
	for _, row := range rows {
		cp := make(entities.RawRecord, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out
}
