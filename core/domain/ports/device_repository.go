package ports

import (
	"context"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

// DeviceRepository reads and writes device tables addressed by resource path.
// Implementations wrap failures in *entities.TransportError.
type DeviceRepository interface {
	QueryTable(ctx context.Context, path entities.ResourcePath) ([]entities.RawRecord, error)
	CreateRecord(ctx context.Context, path entities.ResourcePath, fields []entities.Field) error
	UpdateRecord(ctx context.Context, path entities.ResourcePath, id string, fields []entities.Field) error
}
