package fulfillment

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// PackingSlipUseCase arma los datos de un envío y delega el PDF al generador.
type PackingSlipUseCase struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	lotRepo      repository.InventoryLotRepository
	generator    PackingSlipGenerator
}

// NewPackingSlipUseCase construye el caso de uso.
func NewPackingSlipUseCase(shipmentRepo repository.ShipmentRepository, orderRepo repository.OrderRepository, lotRepo repository.InventoryLotRepository, generator PackingSlipGenerator) *PackingSlipUseCase {
	return &PackingSlipUseCase{shipmentRepo: shipmentRepo, orderRepo: orderRepo, lotRepo: lotRepo, generator: generator}
}

// GetShipment devuelve el envío por id.
func (uc *PackingSlipUseCase) GetShipment(ctx context.Context, shipmentID string) (*entity.Shipment, error) {
	if shipmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrShipmentNotFound
	}
	return s, nil
}

// GeneratePackingSlip genera el PDF del packing slip de un envío.
func (uc *PackingSlipUseCase) GeneratePackingSlip(ctx context.Context, shipmentID string) ([]byte, error) {
	shipment, err := uc.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	order, err := uc.orderRepo.GetWithItems(ctx, shipment.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	allocations, err := uc.shipmentRepo.ListAllocations(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}

	// Lotes referenciados, para imprimir número de lote y vencimiento
	lots := make(map[string]*entity.InventoryLot, len(allocations))
	for _, a := range allocations {
		if _, ok := lots[a.LotID]; ok {
			continue
		}
		lot, err := uc.lotRepo.GetByID(ctx, a.LotID)
		if err != nil {
			return nil, err
		}
		if lot != nil {
			lots[a.LotID] = lot
		}
	}
	return uc.generator.GeneratePackingSlip(ctx, shipment, order, allocations, lots)
}
