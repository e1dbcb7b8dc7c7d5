package allocation

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Orders      repository.OrderRepository
	Lots        repository.InventoryLotRepository
	Allocations repository.AllocationRepository
	ActivityLog repository.ActivityLogRepository
	Shipments   repository.ShipmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// repositorios atados a esa tx. Garantiza atomicidad para el motor: cualquier
// error en fn hace Rollback completo (sin asignaciones huérfanas ni filas de
// auditoría sin su cambio de cantidad).
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
