package fulfillment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: una orden asignada con su lote reservado, lista para despachar
// ──────────────────────────────────────────────────────────────────────────────

const (
	fxOrder     = "ORD-1"
	fxLot       = "LOT-1"
	fxWarehouse = "WH-1"
	fxActor     = "user-1"
)

type fixture struct {
	mu             sync.Mutex
	order          *entity.Order
	lot            *entity.InventoryLot
	allocations    map[string]*entity.InventoryAllocation
	activity       []*entity.InventoryActivityLogEntry
	shipments      map[string]*entity.Shipment
	shipmentAllocs map[string][]string
}

// newFixture deja ORD-1 en ALLOCATED con una asignación de 10 unidades sobre
// LOT-1 (reservadas).
func newFixture() *fixture {
	qty := decimal.NewFromInt(10)
	f := &fixture{
		order: &entity.Order{
			ID:     fxOrder,
			Status: entity.OrderStatusAllocated,
			Items: []entity.OrderItem{{
				ID:                fxOrder + "-item-1",
				OrderID:           fxOrder,
				ProductID:         "SKU-123",
				QuantityOrdered:   qty,
				QuantityAllocated: qty,
			}},
		},
		lot: &entity.InventoryLot{
			ID:          fxLot,
			WarehouseID: fxWarehouse,
			ProductID:   "SKU-123",
			OnHand:      qty,
			Reserved:    qty,
			Status:      entity.LotStatusActive,
		},
		allocations:    make(map[string]*entity.InventoryAllocation),
		shipments:      make(map[string]*entity.Shipment),
		shipmentAllocs: make(map[string][]string),
	}
	f.allocations["ALLOC-1"] = &entity.InventoryAllocation{
		ID:          "ALLOC-1",
		OrderID:     fxOrder,
		OrderItemID: fxOrder + "-item-1",
		WarehouseID: fxWarehouse,
		LotID:       fxLot,
		Quantity:    qty,
		Status:      entity.AllocationStatusAllocated,
		CreatedBy:   fxActor,
		CreatedAt:   time.Now().UTC(),
	}
	return f
}

func (f *fixture) txRunner() allocation.TxRunner { return &fxTxRunner{f: f} }

func (f *fixture) useCase() *fulfillment.AdvanceFulfillmentUseCase {
	releaser := allocation.NewReleaseAllocationUseCase(f.txRunner())
	return fulfillment.NewAdvanceFulfillmentUseCase(f.txRunner(), releaser)
}

func advanceInput(target string) fulfillment.FulfillmentInput {
	return fulfillment.FulfillmentInput{OrderID: fxOrder, TargetStatus: target, ActorID: fxActor}
}

type fxTxRunner struct{ f *fixture }

func (r *fxTxRunner) Run(_ context.Context, fn func(r allocation.TxRepos) error) error {
	return fn(allocation.TxRepos{
		Orders:      &fxOrderRepo{f: r.f},
		Lots:        &fxLotRepo{f: r.f},
		Allocations: &fxAllocationRepo{f: r.f},
		ActivityLog: &fxActivityLogRepo{f: r.f},
		Shipments:   &fxShipmentRepo{f: r.f},
	})
}

// ── Repos del fixture ─────────────────────────────────────────────────────────

type fxOrderRepo struct{ f *fixture }

func (r *fxOrderRepo) GetWithItems(_ context.Context, orderID string) (*entity.Order, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if orderID != r.f.order.ID {
		return nil, nil
	}
	c := *r.f.order
	c.Items = append([]entity.OrderItem(nil), r.f.order.Items...)
	return &c, nil
}

func (r *fxOrderRepo) GetForUpdateWithItems(ctx context.Context, orderID string) (*entity.Order, error) {
	return r.GetWithItems(ctx, orderID)
}

func (r *fxOrderRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if orderID == r.f.order.ID {
		r.f.order.Status = status
	}
	return nil
}

type fxLotRepo struct{ f *fixture }

func (r *fxLotRepo) GetByID(_ context.Context, lotID string) (*entity.InventoryLot, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if lotID != r.f.lot.ID {
		return nil, nil
	}
	c := *r.f.lot
	return &c, nil
}

func (r *fxLotRepo) GetAvailableLot(_ context.Context, _, _ string, _ decimal.Decimal, _ string) (*entity.InventoryLot, error) {
	return nil, nil
}

func (r *fxLotRepo) ReserveQuantity(_ context.Context, _ string, _ decimal.Decimal) (bool, decimal.Decimal, error) {
	return false, decimal.Zero, nil
}

func (r *fxLotRepo) ReleaseQuantity(_ context.Context, lotID string, quantity decimal.Decimal) (bool, decimal.Decimal, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if lotID != r.f.lot.ID || r.f.lot.Reserved.LessThan(quantity) {
		return false, decimal.Zero, nil
	}
	r.f.lot.Reserved = r.f.lot.Reserved.Sub(quantity)
	return true, r.f.lot.Available(), nil
}

func (r *fxLotRepo) ListByProduct(_ context.Context, _, _ string) ([]*entity.InventoryLot, error) {
	return nil, nil
}

type fxAllocationRepo struct{ f *fixture }

func (r *fxAllocationRepo) Create(_ context.Context, a *entity.InventoryAllocation) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c := *a
	r.f.allocations[a.ID] = &c
	return nil
}

func (r *fxAllocationRepo) GetByID(_ context.Context, id string) (*entity.InventoryAllocation, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if a, ok := r.f.allocations[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (r *fxAllocationRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.InventoryAllocation, error) {
	return r.list(orderID, "")
}

func (r *fxAllocationRepo) ListByOrderAndStatus(_ context.Context, orderID, status string) ([]*entity.InventoryAllocation, error) {
	return r.list(orderID, status)
}

func (r *fxAllocationRepo) list(orderID, status string) ([]*entity.InventoryAllocation, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*entity.InventoryAllocation
	for _, a := range r.f.allocations {
		if a.OrderID == orderID && (status == "" || a.Status == status) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fxAllocationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if a, ok := r.f.allocations[id]; ok {
		a.Status = status
	}
	return nil
}

func (r *fxAllocationRepo) UpdateStatusByOrder(_ context.Context, orderID, fromStatus, toStatus string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, a := range r.f.allocations {
		if a.OrderID == orderID && a.Status == fromStatus {
			a.Status = toStatus
		}
	}
	return nil
}

type fxActivityLogRepo struct{ f *fixture }

func (r *fxActivityLogRepo) Append(_ context.Context, e *entity.InventoryActivityLogEntry) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c := *e
	r.f.activity = append(r.f.activity, &c)
	return nil
}

func (r *fxActivityLogRepo) ListByLot(_ context.Context, _ string, _, _ int) ([]*entity.InventoryActivityLogEntry, error) {
	return nil, nil
}

type fxShipmentRepo struct{ f *fixture }

func (r *fxShipmentRepo) Create(_ context.Context, s *entity.Shipment, allocationIDs []string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c := *s
	r.f.shipments[s.ID] = &c
	r.f.shipmentAllocs[s.ID] = append([]string(nil), allocationIDs...)
	return nil
}

func (r *fxShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if s, ok := r.f.shipments[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *fxShipmentRepo) GetByOrder(_ context.Context, orderID string) (*entity.Shipment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, s := range r.f.shipments {
		if s.OrderID == orderID {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fxShipmentRepo) UpdateStatus(_ context.Context, id, status, trackingNumber, carrier string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if s, ok := r.f.shipments[id]; ok {
		s.Status = status
		if trackingNumber != "" {
			s.TrackingNumber = trackingNumber
		}
		if carrier != "" {
			s.Carrier = carrier
		}
	}
	return nil
}

func (r *fxShipmentRepo) ListAllocations(_ context.Context, shipmentID string) ([]*entity.InventoryAllocation, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*entity.InventoryAllocation
	for _, id := range r.f.shipmentAllocs[shipmentID] {
		if a, ok := r.f.allocations[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del orquestador de despacho
// ──────────────────────────────────────────────────────────────────────────────

// FULFILLED empaca las asignaciones vivas en un envío PACKED.
func TestAdvance_Fulfill_CreaEnvioPacked(t *testing.T) {
	f := newFixture()
	res, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusAllocated, res.PreviousStatus)
	assert.Equal(t, entity.OrderStatusFulfilled, res.Status)
	assert.Equal(t, entity.OrderStatusFulfilled, f.order.Status)
	assert.Equal(t, 1, res.AllocationsAffected)

	require.NotNil(t, res.Shipment)
	assert.Equal(t, entity.ShipmentStatusPacked, res.Shipment.Status)
	assert.Equal(t, fxWarehouse, res.Shipment.WarehouseID)
	assert.Equal(t, []string{"ALLOC-1"}, f.shipmentAllocs[res.Shipment.ID])
	assert.Equal(t, entity.AllocationStatusFulfilled, f.allocations["ALLOC-1"].Status)
}

// Asignaciones repartidas en varias bodegas no caben en un solo envío: el
// empaque se rechaza en vez de atribuir el envío a una bodega arbitraria.
func TestAdvance_Fulfill_BodegasMezcladas(t *testing.T) {
	f := newFixture()
	f.allocations["ALLOC-2"] = &entity.InventoryAllocation{
		ID:          "ALLOC-2",
		OrderID:     fxOrder,
		OrderItemID: fxOrder + "-item-1",
		WarehouseID: "WH-2",
		LotID:       "LOT-2",
		Quantity:    decimal.NewFromInt(3),
		Status:      entity.AllocationStatusAllocated,
		CreatedBy:   fxActor,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	require.Error(t, err)
	assert.Equal(t, domain.KindBusiness, domain.KindOf(err))

	// Nada se empacó ni avanzó de estado
	assert.Empty(t, f.shipments)
	assert.Equal(t, entity.OrderStatusAllocated, f.order.Status)
	assert.Equal(t, entity.AllocationStatusAllocated, f.allocations["ALLOC-1"].Status)
	assert.Equal(t, entity.AllocationStatusAllocated, f.allocations["ALLOC-2"].Status)
}

// Despachar antes de asignar viola el ciclo: CONFIRMED no transiciona a FULFILLED.
func TestAdvance_Fulfill_AntesDeAsignar(t *testing.T) {
	f := newFixture()
	f.order.Status = entity.OrderStatusConfirmed

	_, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	require.Error(t, err)
	assert.Equal(t, domain.KindBusiness, domain.KindOf(err))
	assert.Equal(t, entity.OrderStatusConfirmed, f.order.Status, "la orden no debe moverse")
	assert.Empty(t, f.shipments)
}

// Sin asignaciones vivas no hay nada que empacar.
func TestAdvance_Fulfill_SinAsignaciones(t *testing.T) {
	f := newFixture()
	f.allocations["ALLOC-1"].Status = entity.AllocationStatusReleased

	_, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	assert.ErrorIs(t, err, domain.ErrNothingToFulfill)
	assert.Equal(t, entity.OrderStatusAllocated, f.order.Status)
}

// SHIPPED exige tracking y pasa el envío a DISPATCHED.
func TestAdvance_Ship_ConTracking(t *testing.T) {
	f := newFixture()
	uc := f.useCase()
	_, err := uc.Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	require.NoError(t, err)

	in := advanceInput(entity.OrderStatusShipped)
	in.TrackingNumber = "TRK-9000"
	in.Carrier = "Servientrega"
	res, err := uc.Advance(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusShipped, f.order.Status)
	require.NotNil(t, res.Shipment)
	assert.Equal(t, entity.ShipmentStatusDispatched, res.Shipment.Status)
	assert.Equal(t, "TRK-9000", res.Shipment.TrackingNumber)
	assert.Equal(t, "Servientrega", res.Shipment.Carrier)
	assert.Equal(t, entity.AllocationStatusShipped, f.allocations["ALLOC-1"].Status)
}

func TestAdvance_Ship_SinTracking(t *testing.T) {
	f := newFixture()
	uc := f.useCase()
	_, err := uc.Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	require.NoError(t, err)

	_, err = uc.Advance(context.Background(), advanceInput(entity.OrderStatusShipped))
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, entity.OrderStatusFulfilled, f.order.Status)
}

// CANCELLED libera el stock reservado por el camino compensatorio y cancela el
// envío que aún no salió.
func TestAdvance_Cancel_LiberaYCancelaEnvio(t *testing.T) {
	f := newFixture()
	uc := f.useCase()
	res, err := uc.Advance(context.Background(), advanceInput(entity.OrderStatusFulfilled))
	require.NoError(t, err)
	shipmentID := res.Shipment.ID

	res, err = uc.Advance(context.Background(), advanceInput(entity.OrderStatusCancelled))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, f.order.Status)
	assert.Equal(t, 1, res.AllocationsAffected)
	assert.Equal(t, entity.AllocationStatusReleased, f.allocations["ALLOC-1"].Status)
	assert.Equal(t, entity.ShipmentStatusCancelled, f.shipments[shipmentID].Status)

	// El stock volvió al lote y quedó la entrada compensatoria
	assert.True(t, f.lot.Reserved.IsZero())
	require.Len(t, f.activity, 1)
	assert.Equal(t, entity.ActivityActionRelease, f.activity[0].Action)
}

// Cancelación directa desde ALLOCATED (sin envío todavía).
func TestAdvance_Cancel_DesdeAllocated(t *testing.T) {
	f := newFixture()
	res, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusCancelled))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, f.order.Status)
	assert.Equal(t, 1, res.AllocationsAffected)
	assert.True(t, f.lot.Reserved.IsZero())
}

// Una orden terminal no admite más transiciones, ni siquiera cancelar.
func TestAdvance_OrdenTerminal(t *testing.T) {
	f := newFixture()
	f.order.Status = entity.OrderStatusCancelled

	_, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusCancelled))
	require.Error(t, err)
	assert.Equal(t, domain.KindBusiness, domain.KindOf(err))
}

// Los estados del camino de asignación no pasan por este orquestador.
func TestAdvance_EstadoDeAsignacionRechazado(t *testing.T) {
	f := newFixture()
	_, err := f.useCase().Advance(context.Background(), advanceInput(entity.OrderStatusAllocated))
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAdvance_EstadoDesconocido(t *testing.T) {
	f := newFixture()
	_, err := f.useCase().Advance(context.Background(), advanceInput("TELEPORTED"))
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAdvance_OrdenInexistente(t *testing.T) {
	f := newFixture()
	in := advanceInput(entity.OrderStatusCancelled)
	in.OrderID = "ORD-NOPE"
	_, err := f.useCase().Advance(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
