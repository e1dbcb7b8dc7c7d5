package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// ShipmentRepository define el puerto de envíos (agrupación de asignaciones).
type ShipmentRepository interface {
	// Create inserta el envío y lo liga a las asignaciones indicadas.
	Create(ctx context.Context, s *entity.Shipment, allocationIDs []string) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetByOrder(ctx context.Context, orderID string) (*entity.Shipment, error)
	// UpdateStatus avanza el estado y, si tracking no es vacío, lo adjunta.
	UpdateStatus(ctx context.Context, id, status, trackingNumber, carrier string) error
	// ListAllocations devuelve las asignaciones agrupadas en el envío.
	ListAllocations(ctx context.Context, shipmentID string) ([]*entity.InventoryAllocation, error)
}
