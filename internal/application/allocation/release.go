package allocation

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/fulfillment"
)

// ReleaseAllocationUseCase libera una asignación viva de vuelta a su lote:
// incremento compensatorio de disponibilidad + entrada RELEASE en el log.
// La asignación no se borra (libro mayor), solo pasa a RELEASED.
type ReleaseAllocationUseCase struct {
	txRunner TxRunner
	writer   *ActivityWriter
}

// NewReleaseAllocationUseCase construye el caso de uso.
func NewReleaseAllocationUseCase(txRunner TxRunner) *ReleaseAllocationUseCase {
	return &ReleaseAllocationUseCase{txRunner: txRunner, writer: NewActivityWriter()}
}

// Release ejecuta la liberación en su propia transacción.
func (uc *ReleaseAllocationUseCase) Release(ctx context.Context, allocationID, actorID, comment string) (*entity.InventoryAllocation, error) {
	if allocationID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	var released *entity.InventoryAllocation
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		alloc, err := r.Allocations.GetByID(ctx, allocationID)
		if err != nil {
			return err
		}
		if alloc == nil {
			return domain.ErrAllocationNotFound
		}
		// Mismo orden de bloqueo que Allocate: primero la fila de la orden
		order, err := r.Orders.GetForUpdateWithItems(ctx, alloc.OrderID)
		if err != nil {
			return err
		}
		// Releer después de tomar el bloqueo: bajo READ COMMITTED otra
		// liberación de la misma asignación pudo confirmar mientras esta
		// transacción esperaba la fila de la orden. La lectura previa al
		// bloqueo solo sirve para conocer la orden; el estado que decide
		// es el de esta relectura.
		alloc, err = r.Allocations.GetByID(ctx, allocationID)
		if err != nil {
			return err
		}
		if alloc == nil {
			return domain.ErrAllocationNotFound
		}
		if err := uc.ReleaseInTx(ctx, r, alloc, actorID, comment); err != nil {
			return err
		}
		// La orden puede quedar bajo cobertura: ALLOCATED vuelve a PARTIAL.
		// Se descuenta en memoria la cantidad recién liberada.
		if order != nil {
			for idx := range order.Items {
				if order.Items[idx].ID == alloc.OrderItemID {
					order.Items[idx].QuantityAllocated = order.Items[idx].QuantityAllocated.Sub(alloc.Quantity)
				}
			}
			if order.Status == entity.OrderStatusAllocated && !order.FullyCovered() {
				if !fulfillment.CanTransition(order.Status, entity.OrderStatusPartial) {
					return domain.ErrInvalidTransition
				}
				if err := r.Orders.UpdateStatus(ctx, order.ID, entity.OrderStatusPartial); err != nil {
					return err
				}
			}
		}
		released = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// ReleaseInTx ejecuta la liberación usando los repositorios de la transacción
// del caller (mismo patrón que el despacho: el orquestador de fulfillment la
// invoca al cancelar una orden). Una asignación ya despachada (SHIPPED) o ya
// liberada no es liberable: violación de regla de negocio.
func (uc *ReleaseAllocationUseCase) ReleaseInTx(ctx context.Context, r TxRepos, alloc *entity.InventoryAllocation, actorID, comment string) error {
	if alloc.Status != entity.AllocationStatusAllocated && alloc.Status != entity.AllocationStatusFulfilled {
		return domain.NewError(domain.KindBusiness, "la asignación ya fue despachada o liberada")
	}
	ok, newAvailable, err := r.Lots.ReleaseQuantity(ctx, alloc.LotID, alloc.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		// reserved < quantity: la fila fue mutada por fuera del camino atómico
		return domain.NewError(domain.KindConflict, "la reserva del lote no coincide con la asignación")
	}
	if err := r.Allocations.UpdateStatus(ctx, alloc.ID, entity.AllocationStatusReleased); err != nil {
		return err
	}
	alloc.Status = entity.AllocationStatusReleased

	previous := newAvailable.Sub(alloc.Quantity)
	_, err = uc.writer.RecordAddition(ctx, r.ActivityLog, RecordActivityInput{
		LotID:            alloc.LotID,
		PreviousQuantity: previous,
		Delta:            alloc.Quantity,
		Actor:            actorID,
		Comment:          comment,
		Metadata: map[string]string{
			"order_id":      alloc.OrderID,
			"allocation_id": alloc.ID,
		},
	})
	return err
}
