package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	domfulfillment "github.com/jhoicas/fulfillment-api/internal/domain/fulfillment"
)

// AllocationReleaser es el contrato mínimo que necesita la cancelación para
// devolver stock reservado; lo implementa *allocation.ReleaseAllocationUseCase.
type AllocationReleaser interface {
	ReleaseInTx(ctx context.Context, r allocation.TxRepos, alloc *entity.InventoryAllocation, actorID, comment string) error
}

// AdvanceFulfillmentUseCase es el orquestador de despacho: consume
// asignaciones para producir envíos y avanza el estado de la orden a través
// del ciclo acotado, validando cada transición dentro de la misma transacción
// que cualquier escritura que dispare.
type AdvanceFulfillmentUseCase struct {
	txRunner allocation.TxRunner
	releaser AllocationReleaser
}

// NewAdvanceFulfillmentUseCase construye el orquestador.
func NewAdvanceFulfillmentUseCase(txRunner allocation.TxRunner, releaser AllocationReleaser) *AdvanceFulfillmentUseCase {
	return &AdvanceFulfillmentUseCase{txRunner: txRunner, releaser: releaser}
}

// FulfillmentInput entrada para avanzar el ciclo de una orden.
// TargetStatus admite FULFILLED, SHIPPED o CANCELLED; los estados de
// asignación (ALLOCATING/ALLOCATED/PARTIAL) los maneja el camino de
// asignación, no este orquestador.
type FulfillmentInput struct {
	OrderID        string
	TargetStatus   string
	TrackingNumber string // obligatorio para SHIPPED
	Carrier        string
	ActorID        string
	Comment        string
}

// FulfillmentResult resultado del avance.
type FulfillmentResult struct {
	OrderID             string
	PreviousStatus      string
	Status              string
	Shipment            *entity.Shipment
	AllocationsAffected int
}

// Advance valida y ejecuta la transición solicitada.
func (uc *AdvanceFulfillmentUseCase) Advance(ctx context.Context, input FulfillmentInput) (*FulfillmentResult, error) {
	if input.OrderID == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domfulfillment.IsStatus(input.TargetStatus) {
		return nil, domain.NewError(domain.KindValidation, "estado destino desconocido: "+input.TargetStatus)
	}
	switch input.TargetStatus {
	case entity.OrderStatusFulfilled, entity.OrderStatusShipped, entity.OrderStatusCancelled:
	default:
		return nil, domain.NewError(domain.KindValidation, "el estado "+input.TargetStatus+" lo administra el camino de asignación")
	}

	var result *FulfillmentResult
	err := uc.txRunner.Run(ctx, func(r allocation.TxRepos) error {
		order, err := r.Orders.GetForUpdateWithItems(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		// Guardia del ciclo: p.ej. despachar antes de asignar cae aquí
		if !domfulfillment.CanTransition(order.Status, input.TargetStatus) {
			return domain.WrapError(domain.KindBusiness,
				"transición de estado no permitida: "+order.Status+" -> "+input.TargetStatus, nil)
		}

		res := &FulfillmentResult{OrderID: order.ID, PreviousStatus: order.Status, Status: input.TargetStatus}
		switch input.TargetStatus {
		case entity.OrderStatusFulfilled:
			err = uc.fulfill(ctx, r, order, input, res)
		case entity.OrderStatusShipped:
			err = uc.ship(ctx, r, order, input, res)
		case entity.OrderStatusCancelled:
			err = uc.cancel(ctx, r, order, input, res)
		}
		if err != nil {
			return err
		}
		if err := r.Orders.UpdateStatus(ctx, order.ID, input.TargetStatus); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// fulfill empaca las asignaciones vivas de la orden en un envío (PACKED) y las
// avanza a FULFILLED.
func (uc *AdvanceFulfillmentUseCase) fulfill(ctx context.Context, r allocation.TxRepos, order *entity.Order, input FulfillmentInput, res *FulfillmentResult) error {
	allocs, err := r.Allocations.ListByOrderAndStatus(ctx, order.ID, entity.AllocationStatusAllocated)
	if err != nil {
		return err
	}
	if len(allocs) == 0 {
		return domain.ErrNothingToFulfill
	}

	ids := make([]string, 0, len(allocs))
	for _, a := range allocs {
		// Un envío sale de una sola bodega; asignaciones repartidas en
		// varias no pueden empacarse juntas.
		if a.WarehouseID != allocs[0].WarehouseID {
			return domain.NewError(domain.KindBusiness,
				"la orden tiene asignaciones en más de una bodega; no puede empacarse en un solo envío")
		}
		ids = append(ids, a.ID)
	}
	now := time.Now().UTC()
	shipment := &entity.Shipment{
		ID:          uuid.New().String(),
		OrderID:     order.ID,
		WarehouseID: allocs[0].WarehouseID,
		Status:      entity.ShipmentStatusPacked,
		Carrier:     input.Carrier,
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Shipments.Create(ctx, shipment, ids); err != nil {
		return err
	}
	if err := r.Allocations.UpdateStatusByOrder(ctx, order.ID, entity.AllocationStatusAllocated, domfulfillment.AllocationStatusFor(input.TargetStatus)); err != nil {
		return err
	}
	res.Shipment = shipment
	res.AllocationsAffected = len(allocs)
	return nil
}

// ship despacha el envío: exige tracking, pasa el envío a DISPATCHED y las
// asignaciones a SHIPPED.
func (uc *AdvanceFulfillmentUseCase) ship(ctx context.Context, r allocation.TxRepos, order *entity.Order, input FulfillmentInput, res *FulfillmentResult) error {
	if input.TrackingNumber == "" {
		return domain.NewError(domain.KindValidation, "tracking_number es obligatorio para despachar")
	}
	shipment, err := r.Shipments.GetByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	if shipment == nil {
		return domain.ErrShipmentNotFound
	}
	if shipment.Status != entity.ShipmentStatusPacked {
		return domain.NewError(domain.KindBusiness, "el envío no está en estado PACKED")
	}
	if err := r.Shipments.UpdateStatus(ctx, shipment.ID, entity.ShipmentStatusDispatched, input.TrackingNumber, input.Carrier); err != nil {
		return err
	}
	if err := r.Allocations.UpdateStatusByOrder(ctx, order.ID, entity.AllocationStatusFulfilled, domfulfillment.AllocationStatusFor(input.TargetStatus)); err != nil {
		return err
	}
	shipment.Status = entity.ShipmentStatusDispatched
	shipment.TrackingNumber = input.TrackingNumber
	if input.Carrier != "" {
		shipment.Carrier = input.Carrier
	}
	res.Shipment = shipment
	return nil
}

// cancel libera cada asignación no despachada por el camino compensatorio
// (incremento + entrada RELEASE) y cancela el envío si aún no salió.
func (uc *AdvanceFulfillmentUseCase) cancel(ctx context.Context, r allocation.TxRepos, order *entity.Order, input FulfillmentInput, res *FulfillmentResult) error {
	comment := input.Comment
	if comment == "" {
		comment = "cancelación de la orden"
	}
	for _, status := range []string{entity.AllocationStatusAllocated, entity.AllocationStatusFulfilled} {
		allocs, err := r.Allocations.ListByOrderAndStatus(ctx, order.ID, status)
		if err != nil {
			return err
		}
		for _, a := range allocs {
			if err := uc.releaser.ReleaseInTx(ctx, r, a, input.ActorID, comment); err != nil {
				return err
			}
			res.AllocationsAffected++
		}
	}
	shipment, err := r.Shipments.GetByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	if shipment != nil && shipment.Status == entity.ShipmentStatusPacked {
		if err := r.Shipments.UpdateStatus(ctx, shipment.ID, entity.ShipmentStatusCancelled, "", ""); err != nil {
			return err
		}
	}
	return nil
}
