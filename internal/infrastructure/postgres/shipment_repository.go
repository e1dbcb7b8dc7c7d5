package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `id, order_id, warehouse_id, status, tracking_number, carrier, created_by, created_at, updated_at`

// ShipmentRepo implementación sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create inserta el envío y sus ligas a asignaciones (misma transacción).
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment, allocationIDs []string) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrderID, s.WarehouseID, s.Status, s.TrackingNumber,
		s.Carrier, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "create shipment", err)
	}
	for _, allocID := range allocationIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO shipment_allocations (shipment_id, allocation_id) VALUES ($1, $2)`,
			s.ID, allocID,
		)
		if err != nil {
			return domain.WrapError(domain.KindInternal, "link shipment allocation", err)
		}
	}
	return nil
}

func (r *ShipmentRepo) get(ctx context.Context, query string, arg any) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.OrderID, &s.WarehouseID, &s.Status, &s.TrackingNumber,
		&s.Carrier, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindInternal, "get shipment", err)
	}
	return &s, nil
}

// GetByID obtiene un envío por id.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

// GetByOrder obtiene el envío más reciente de una orden.
func (r *ShipmentRepo) GetByOrder(ctx context.Context, orderID string) (*entity.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1`, orderID)
}

// UpdateStatus avanza el estado y adjunta tracking/carrier si vienen.
func (r *ShipmentRepo) UpdateStatus(ctx context.Context, id, status, trackingNumber, carrier string) error {
	query := `
		UPDATE shipments
		SET status = $2,
		    tracking_number = COALESCE(NULLIF($3, ''), tracking_number),
		    carrier = COALESCE(NULLIF($4, ''), carrier),
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, trackingNumber, carrier)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "update shipment status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.KindInternal, fmt.Sprintf("envío %s no existe", id))
	}
	return nil
}

// ListAllocations devuelve las asignaciones agrupadas en el envío.
func (r *ShipmentRepo) ListAllocations(ctx context.Context, shipmentID string) ([]*entity.InventoryAllocation, error) {
	query := `
		SELECT a.id, a.order_id, a.order_item_id, a.warehouse_id, a.lot_id, a.quantity, a.status, a.created_by, a.created_at, a.updated_at
		FROM inventory_allocations a
		JOIN shipment_allocations sa ON sa.allocation_id = a.id
		WHERE sa.shipment_id = $1
		ORDER BY a.created_at ASC, a.id ASC`
	rows, err := r.q.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "list shipment allocations", err)
	}
	defer rows.Close()
	var list []*entity.InventoryAllocation
	for rows.Next() {
		var a entity.InventoryAllocation
		if err := rows.Scan(
			&a.ID, &a.OrderID, &a.OrderItemID, &a.WarehouseID, &a.LotID,
			&a.Quantity, &a.Status, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, domain.WrapError(domain.KindInternal, "scan shipment allocation", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
