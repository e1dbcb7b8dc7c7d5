package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// AllocationRepository define el puerto del libro mayor de asignaciones.
// Las filas se insertan una vez y nunca se borran; después de creadas solo
// progresa su estado.
type AllocationRepository interface {
	Create(ctx context.Context, a *entity.InventoryAllocation) error
	GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.InventoryAllocation, error)
	// ListByOrderAndStatus filtra por estado (ej. las ALLOCATED pendientes de despacho).
	ListByOrderAndStatus(ctx context.Context, orderID, status string) ([]*entity.InventoryAllocation, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// UpdateStatusByOrder avanza en bloque las asignaciones de una orden que
	// están en fromStatus.
	UpdateStatusByOrder(ctx context.Context, orderID, fromStatus, toStatus string) error
}
