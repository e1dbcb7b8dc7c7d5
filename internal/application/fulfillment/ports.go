package fulfillment

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// PackingSlipGenerator genera la representación imprimible de un envío.
// Implementado en infraestructura (Maroto); el núcleo solo produce los datos.
type PackingSlipGenerator interface {
	GeneratePackingSlip(ctx context.Context, shipment *entity.Shipment, order *entity.Order, allocations []*entity.InventoryAllocation, lots map[string]*entity.InventoryLot) ([]byte, error)
}
