package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/fulfillment"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// Config parámetros del motor de asignación.
type Config struct {
	// AllocatableStatuses estados de orden que admiten asignación
	// (constante de configuración; default CONFIRMED, ALLOCATING, PARTIAL).
	AllocatableStatuses []string
	// DefaultStrategy estrategia cuando el caller no indica una (FIFO o FEFO).
	DefaultStrategy string
}

// AllocateInventoryUseCase reserva stock físico (por lote) contra una orden
// confirmada, de forma transaccional: gatekeeper → selección de lote → reserva
// condicional atómica → asignación + fila de auditoría → avance de estado.
// Todo dentro de una sola transacción; cualquier falla hace Rollback completo.
type AllocateInventoryUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	writer        *ActivityWriter
	cfg           Config
}

// NewAllocateInventoryUseCase construye el caso de uso.
func NewAllocateInventoryUseCase(txRunner TxRunner, warehouseRepo repository.WarehouseRepository, cfg Config) *AllocateInventoryUseCase {
	if len(cfg.AllocatableStatuses) == 0 {
		cfg.AllocatableStatuses = []string{entity.OrderStatusConfirmed, entity.OrderStatusAllocating, entity.OrderStatusPartial}
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = entity.StrategyFEFO
	}
	return &AllocateInventoryUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		writer:        NewActivityWriter(),
		cfg:           cfg,
	}
}

// AllocationInput entrada para asignar inventario a una orden.
type AllocationInput struct {
	OrderID     string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Strategy    string // FIFO | FEFO; vacío = estrategia por defecto
	ActorID     string
	Comment     string
}

// Allocate ejecuta la asignación completa y devuelve la asignación creada.
// Dos llamadas concurrentes sobre el mismo lote se serializan por el update
// condicional: la perdedora recibe Conflict (reintentable por el caller).
func (uc *AllocateInventoryUseCase) Allocate(ctx context.Context, input AllocationInput) (*entity.InventoryAllocation, error) {
	if input.OrderID == "" || input.ProductID == "" || input.WarehouseID == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	strategy := input.Strategy
	if strategy == "" {
		strategy = uc.cfg.DefaultStrategy
	}
	if strategy != entity.StrategyFIFO && strategy != entity.StrategyFEFO {
		return nil, domain.NewError(domain.KindValidation, "estrategia desconocida: "+input.Strategy)
	}

	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrWarehouseNotFound
	}

	var created *entity.InventoryAllocation
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Bloquea la fila de la orden: serializa el avance de estado con otras
		// asignaciones de la misma orden.
		order, err := r.Orders.GetForUpdateWithItems(ctx, input.OrderID)
		if err != nil {
			return err
		}

		// Gatekeeper: lectura pura + validación
		item, err := MatchOrderItem(order, input.ProductID, input.Quantity, uc.cfg.AllocatableStatuses)
		if err != nil {
			return err
		}

		// Lot selector: el mejor lote único que cubre la cantidad completa
		lot, err := r.Lots.GetAvailableLot(ctx, input.ProductID, input.WarehouseID, input.Quantity, strategy)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrLotNotFound
		}

		// Reserva condicional atómica: el perdedor de la carrera recibe Conflict
		ok, newAvailable, err := r.Lots.ReserveQuantity(ctx, lot.ID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrLotConflict
		}

		now := time.Now().UTC()
		alloc := &entity.InventoryAllocation{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			OrderItemID: item.ID,
			WarehouseID: input.WarehouseID,
			LotID:       lot.ID,
			Quantity:    input.Quantity,
			Status:      entity.AllocationStatusAllocated,
			CreatedBy:   input.ActorID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Allocations.Create(ctx, alloc); err != nil {
			return err
		}

		// Fila de auditoría con la disponibilidad previa exacta post-carrera
		previous := newAvailable.Add(input.Quantity)
		if _, err := uc.writer.RecordDeduction(ctx, r.ActivityLog, RecordActivityInput{
			LotID:            lot.ID,
			PreviousQuantity: previous,
			Delta:            input.Quantity,
			Actor:            input.ActorID,
			Comment:          input.Comment,
			Metadata: map[string]string{
				"order_id":      order.ID,
				"allocation_id": alloc.ID,
			},
		}); err != nil {
			return err
		}

		// Refleja la asignación recién creada antes de evaluar cobertura
		item.QuantityAllocated = item.QuantityAllocated.Add(input.Quantity)
		if err := uc.advanceAfterAllocation(ctx, r, order); err != nil {
			return err
		}
		created = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// advanceAfterAllocation avanza el estado de la orden sin saltarse estados:
// CONFIRMED pasa primero por ALLOCATING y de ahí a ALLOCATED o PARTIAL según
// la cobertura de las líneas. Escribe dentro de la misma transacción.
func (uc *AllocateInventoryUseCase) advanceAfterAllocation(ctx context.Context, r TxRepos, order *entity.Order) error {
	current := order.Status
	if current == entity.OrderStatusConfirmed {
		if err := uc.writeStatus(ctx, r, order, entity.OrderStatusAllocating); err != nil {
			return err
		}
		current = entity.OrderStatusAllocating
	}

	target := entity.OrderStatusPartial
	if order.FullyCovered() {
		target = entity.OrderStatusAllocated
	}
	if current == target {
		return nil
	}
	return uc.writeStatus(ctx, r, order, target)
}

func (uc *AllocateInventoryUseCase) writeStatus(ctx context.Context, r TxRepos, order *entity.Order, target string) error {
	if !fulfillment.CanTransition(order.Status, target) {
		return domain.ErrInvalidTransition
	}
	if err := r.Orders.UpdateStatus(ctx, order.ID, target); err != nil {
		return err
	}
	order.Status = target
	return nil
}
