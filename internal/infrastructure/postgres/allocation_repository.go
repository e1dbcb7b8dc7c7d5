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

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

const allocationColumns = `id, order_id, order_item_id, warehouse_id, lot_id, quantity, status, created_by, created_at, updated_at`

// AllocationRepo implementación sobre PostgreSQL (usable con pool o tx).
// Libro mayor: INSERT y avance de estado; sin UPDATE de cantidad, sin DELETE.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Create persiste una asignación.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.InventoryAllocation) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.OrderID, a.OrderItemID, a.WarehouseID, a.LotID,
		a.Quantity, a.Status, a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "create allocation", err)
	}
	return nil
}

// GetByID obtiene una asignación por id.
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM inventory_allocations WHERE id = $1`
	var a entity.InventoryAllocation
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OrderID, &a.OrderItemID, &a.WarehouseID, &a.LotID,
		&a.Quantity, &a.Status, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindInternal, "get allocation", err)
	}
	return &a, nil
}

// ListByOrder lista las asignaciones de una orden.
func (r *AllocationRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM inventory_allocations WHERE order_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, orderID)
}

// ListByOrderAndStatus filtra por estado.
func (r *AllocationRepo) ListByOrderAndStatus(ctx context.Context, orderID, status string) ([]*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM inventory_allocations WHERE order_id = $1 AND status = $2 ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, orderID, status)
}

func (r *AllocationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryAllocation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "list allocations", err)
	}
	defer rows.Close()
	var list []*entity.InventoryAllocation
	for rows.Next() {
		var a entity.InventoryAllocation
		if err := rows.Scan(
			&a.ID, &a.OrderID, &a.OrderItemID, &a.WarehouseID, &a.LotID,
			&a.Quantity, &a.Status, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, domain.WrapError(domain.KindInternal, "scan allocation", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// UpdateStatus avanza el estado de una asignación.
func (r *AllocationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE inventory_allocations SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "update allocation status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.KindInternal, fmt.Sprintf("asignación %s no existe", id))
	}
	return nil
}

// UpdateStatusByOrder avanza en bloque las asignaciones de una orden.
func (r *AllocationRepo) UpdateStatusByOrder(ctx context.Context, orderID, fromStatus, toStatus string) error {
	query := `UPDATE inventory_allocations SET status = $3, updated_at = now() WHERE order_id = $1 AND status = $2`
	_, err := r.q.Exec(ctx, query, orderID, fromStatus, toStatus)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "update allocations by order", err)
	}
	return nil
}
