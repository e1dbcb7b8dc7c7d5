package allocation

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura para los colaboradores de
// presentación (tablas, dropdowns). No abre transacciones.
type QueryUseCase struct {
	lotRepo   repository.InventoryLotRepository
	logRepo   repository.ActivityLogRepository
	allocRepo repository.AllocationRepository
}

// NewQueryUseCase construye las consultas.
func NewQueryUseCase(lotRepo repository.InventoryLotRepository, logRepo repository.ActivityLogRepository, allocRepo repository.AllocationRepository) *QueryUseCase {
	return &QueryUseCase{lotRepo: lotRepo, logRepo: logRepo, allocRepo: allocRepo}
}

// ListLots lista los lotes de un producto; warehouseID vacío = todas las bodegas.
func (uc *QueryUseCase) ListLots(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryLot, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.ListByProduct(ctx, productID, warehouseID)
}

// ListActivity lista el log de actividad de un lote, paginado.
func (uc *QueryUseCase) ListActivity(ctx context.Context, lotID string, limit, offset int) ([]*entity.InventoryActivityLogEntry, error) {
	if lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrLotNotFound
	}
	return uc.logRepo.ListByLot(ctx, lotID, limit, offset)
}

// ListOrderAllocations lista las asignaciones de una orden.
func (uc *QueryUseCase) ListOrderAllocations(ctx context.Context, orderID string) ([]*entity.InventoryAllocation, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.allocRepo.ListByOrder(ctx, orderID)
}
