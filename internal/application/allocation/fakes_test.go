package allocation_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory de los puertos de repositorio
//
// memStore simula la BD: un mutex por operación reproduce la atomicidad del
// update condicional (cada statement es atómico, la carrera entre el SELECT
// del lote y el UPDATE de reserva sigue siendo posible, igual que en Postgres
// con READ COMMITTED).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu             sync.Mutex
	orders         map[string]*entity.Order
	lots           map[string]*entity.InventoryLot
	allocations    map[string]*entity.InventoryAllocation
	activity       []*entity.InventoryActivityLogEntry
	shipments      map[string]*entity.Shipment
	shipmentAllocs map[string][]string
	warehouses     map[string]*entity.Warehouse

	// Hook opcional: corre después del SELECT del lote y antes del UPDATE de
	// reserva, para inyectar una reserva competidora de forma determinista.
	afterLotSelect func()

	// Hook opcional: corre después del SELECT de una asignación, con el
	// snapshot ya tomado. Simula un commit concurrente entre esa lectura y
	// el bloqueo de la fila de la orden.
	afterAllocationSelect func()
}

func newMemStore() *memStore {
	return &memStore{
		orders:         make(map[string]*entity.Order),
		lots:           make(map[string]*entity.InventoryLot),
		allocations:    make(map[string]*entity.InventoryAllocation),
		shipments:      make(map[string]*entity.Shipment),
		shipmentAllocs: make(map[string][]string),
		warehouses:     make(map[string]*entity.Warehouse),
	}
}

func (s *memStore) addWarehouse(id string) {
	s.warehouses[id] = &entity.Warehouse{ID: id, Name: "Bodega " + id, Active: true}
}

func (s *memStore) addOrder(id, status, productID string, quantity decimal.Decimal) {
	s.orders[id] = &entity.Order{
		ID:     id,
		Status: status,
		Items: []entity.OrderItem{{
			ID:              id + "-item-1",
			OrderID:         id,
			ProductID:       productID,
			QuantityOrdered: quantity,
		}},
	}
}

func (s *memStore) addLot(id, warehouseID, productID string, onHand decimal.Decimal, receivedAt time.Time, expiresAt *time.Time) {
	s.lots[id] = &entity.InventoryLot{
		ID:          id,
		WarehouseID: warehouseID,
		ProductID:   productID,
		LotNumber:   "L-" + id,
		OnHand:      onHand,
		Status:      entity.LotStatusActive,
		ReceivedAt:  receivedAt,
		ExpiresAt:   expiresAt,
	}
}

// txRepos arma el conjunto de repos atados al store.
func (s *memStore) txRepos() allocation.TxRepos {
	return allocation.TxRepos{
		Orders:      &memOrderRepo{s: s},
		Lots:        &memLotRepo{s: s},
		Allocations: &memAllocationRepo{s: s},
		ActivityLog: &memActivityLogRepo{s: s},
		Shipments:   &memShipmentRepo{s: s},
	}
}

// memTxRunner pasa los repos del store a fn. No simula rollback: los tests
// validan que los caminos de error fallen antes de escribir.
type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(r allocation.TxRepos) error) error {
	return fn(r.s.txRepos())
}

// ── OrderRepository ───────────────────────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) GetWithItems(_ context.Context, orderID string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneOrder(r.s.orders[orderID]), nil
}

func (r *memOrderRepo) GetForUpdateWithItems(ctx context.Context, orderID string) (*entity.Order, error) {
	return r.GetWithItems(ctx, orderID)
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[orderID]; ok {
		o.Status = status
	}
	return nil
}

// cloneOrder copia la orden con la cantidad asignada derivada, como hace el
// repositorio real (SUM de asignaciones vivas por línea).
func cloneOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = make([]entity.OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	return &c
}

// ── InventoryLotRepository ────────────────────────────────────────────────────

type memLotRepo struct{ s *memStore }

func (r *memLotRepo) GetByID(_ context.Context, lotID string) (*entity.InventoryLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.lots[lotID]; ok {
		c := *l
		return &c, nil
	}
	return nil, nil
}

func (r *memLotRepo) GetAvailableLot(_ context.Context, productID, warehouseID string, quantity decimal.Decimal, strategy string) (*entity.InventoryLot, error) {
	r.s.mu.Lock()
	var best *entity.InventoryLot
	for _, l := range r.s.lots {
		if l.ProductID != productID || l.WarehouseID != warehouseID || l.Status != entity.LotStatusActive {
			continue
		}
		if l.Available().LessThan(quantity) {
			continue
		}
		if best == nil || lotBefore(l, best, strategy) {
			best = l
		}
	}
	var out *entity.InventoryLot
	if best != nil {
		c := *best
		out = &c
	}
	hook := r.s.afterLotSelect
	r.s.mu.Unlock()

	if hook != nil && out != nil {
		hook()
	}
	return out, nil
}

// lotBefore replica el orden del SQL: FEFO por vencimiento (NULLS LAST),
// FIFO por recepción; desempate por id menor.
func lotBefore(a, b *entity.InventoryLot, strategy string) bool {
	if strategy == entity.StrategyFEFO {
		switch {
		case a.ExpiresAt == nil && b.ExpiresAt == nil:
			return a.ID < b.ID
		case a.ExpiresAt == nil:
			return false
		case b.ExpiresAt == nil:
			return true
		case !a.ExpiresAt.Equal(*b.ExpiresAt):
			return a.ExpiresAt.Before(*b.ExpiresAt)
		}
		return a.ID < b.ID
	}
	if !a.ReceivedAt.Equal(b.ReceivedAt) {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}
	return a.ID < b.ID
}

func (r *memLotRepo) ReserveQuantity(_ context.Context, lotID string, quantity decimal.Decimal) (bool, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[lotID]
	if !ok || l.Available().LessThan(quantity) {
		return false, decimal.Zero, nil
	}
	l.Reserved = l.Reserved.Add(quantity)
	return true, l.Available(), nil
}

func (r *memLotRepo) ReleaseQuantity(_ context.Context, lotID string, quantity decimal.Decimal) (bool, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[lotID]
	if !ok || l.Reserved.LessThan(quantity) {
		return false, decimal.Zero, nil
	}
	l.Reserved = l.Reserved.Sub(quantity)
	return true, l.Available(), nil
}

func (r *memLotRepo) ListByProduct(_ context.Context, productID, warehouseID string) ([]*entity.InventoryLot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryLot
	for _, l := range r.s.lots {
		if l.ProductID == productID && (warehouseID == "" || l.WarehouseID == warehouseID) {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── AllocationRepository ──────────────────────────────────────────────────────

type memAllocationRepo struct{ s *memStore }

func (r *memAllocationRepo) Create(_ context.Context, a *entity.InventoryAllocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.allocations[a.ID] = &c

	// Refleja la asignación en la línea de la orden, como hace el SUM del
	// repositorio real al releer.
	if o, ok := r.s.orders[a.OrderID]; ok {
		for idx := range o.Items {
			if o.Items[idx].ID == a.OrderItemID {
				o.Items[idx].QuantityAllocated = o.Items[idx].QuantityAllocated.Add(a.Quantity)
			}
		}
	}
	return nil
}

func (r *memAllocationRepo) GetByID(_ context.Context, id string) (*entity.InventoryAllocation, error) {
	r.s.mu.Lock()
	var out *entity.InventoryAllocation
	if a, ok := r.s.allocations[id]; ok {
		c := *a
		out = &c
	}
	hook := r.s.afterAllocationSelect
	r.s.mu.Unlock()

	// El hook muta el store después de tomar el snapshot: el caller recibe
	// la copia previa, igual que un SELECT que corrió antes del commit ajeno.
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *memAllocationRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.InventoryAllocation, error) {
	return r.list(orderID, "")
}

func (r *memAllocationRepo) ListByOrderAndStatus(_ context.Context, orderID, status string) ([]*entity.InventoryAllocation, error) {
	return r.list(orderID, status)
}

func (r *memAllocationRepo) list(orderID, status string) ([]*entity.InventoryAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryAllocation
	for _, a := range r.s.allocations {
		if a.OrderID == orderID && (status == "" || a.Status == status) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memAllocationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.allocations[id]; ok {
		old := a.Status
		a.Status = status
		// Una liberación deja de contar como asignado en la línea
		if status == entity.AllocationStatusReleased && old != entity.AllocationStatusReleased {
			if o, ok := r.s.orders[a.OrderID]; ok {
				for idx := range o.Items {
					if o.Items[idx].ID == a.OrderItemID {
						o.Items[idx].QuantityAllocated = o.Items[idx].QuantityAllocated.Sub(a.Quantity)
					}
				}
			}
		}
	}
	return nil
}

func (r *memAllocationRepo) UpdateStatusByOrder(_ context.Context, orderID, fromStatus, toStatus string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.allocations {
		if a.OrderID == orderID && a.Status == fromStatus {
			a.Status = toStatus
		}
	}
	return nil
}

// ── ActivityLogRepository ─────────────────────────────────────────────────────

type memActivityLogRepo struct{ s *memStore }

func (r *memActivityLogRepo) Append(_ context.Context, e *entity.InventoryActivityLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	r.s.activity = append(r.s.activity, &c)
	return nil
}

func (r *memActivityLogRepo) ListByLot(_ context.Context, lotID string, limit, offset int) ([]*entity.InventoryActivityLogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryActivityLogEntry
	for i := len(r.s.activity) - 1; i >= 0; i-- {
		if r.s.activity[i].LotID == lotID {
			c := *r.s.activity[i]
			out = append(out, &c)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── ShipmentRepository ────────────────────────────────────────────────────────

type memShipmentRepo struct{ s *memStore }

func (r *memShipmentRepo) Create(_ context.Context, sh *entity.Shipment, allocationIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *sh
	r.s.shipments[sh.ID] = &c
	r.s.shipmentAllocs[sh.ID] = append([]string(nil), allocationIDs...)
	return nil
}

func (r *memShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sh, ok := r.s.shipments[id]; ok {
		c := *sh
		return &c, nil
	}
	return nil, nil
}

func (r *memShipmentRepo) GetByOrder(_ context.Context, orderID string) (*entity.Shipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.Shipment
	for _, sh := range r.s.shipments {
		if sh.OrderID != orderID {
			continue
		}
		if latest == nil || sh.CreatedAt.After(latest.CreatedAt) {
			latest = sh
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *memShipmentRepo) UpdateStatus(_ context.Context, id, status, trackingNumber, carrier string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sh, ok := r.s.shipments[id]; ok {
		sh.Status = status
		if trackingNumber != "" {
			sh.TrackingNumber = trackingNumber
		}
		if carrier != "" {
			sh.Carrier = carrier
		}
	}
	return nil
}

func (r *memShipmentRepo) ListAllocations(_ context.Context, shipmentID string) ([]*entity.InventoryAllocation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryAllocation
	for _, id := range r.s.shipmentAllocs[shipmentID] {
		if a, ok := r.s.allocations[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── WarehouseRepository ───────────────────────────────────────────────────────

type memWarehouseRepo struct{ s *memStore }

func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		c := *w
		return &c, nil
	}
	return nil, nil
}
