package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// ActivityLogRepository define el puerto del rastro de auditoría.
// Append-only: no existe Update ni Delete, las correcciones son entradas
// compensatorias nuevas.
type ActivityLogRepository interface {
	Append(ctx context.Context, e *entity.InventoryActivityLogEntry) error
	ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.InventoryActivityLogEntry, error)
}
