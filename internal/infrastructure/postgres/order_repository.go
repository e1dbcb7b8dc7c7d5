package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
// La cantidad asignada por línea se deriva de las asignaciones vivas (no RELEASED).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetWithItems obtiene la orden con sus líneas y lo ya asignado por línea.
func (r *OrderRepo) GetWithItems(ctx context.Context, orderID string) (*entity.Order, error) {
	return r.getWithItems(ctx, orderID, false)
}

// GetForUpdateWithItems igual que GetWithItems pero bloquea la fila de la
// orden (SELECT FOR UPDATE) para serializar el avance de estado.
func (r *OrderRepo) GetForUpdateWithItems(ctx context.Context, orderID string) (*entity.Order, error) {
	return r.getWithItems(ctx, orderID, true)
}

func (r *OrderRepo) getWithItems(ctx context.Context, orderID string, forUpdate bool) (*entity.Order, error) {
	query := `
		SELECT id, category, status, created_at, updated_at
		FROM orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.Order
	err := r.q.QueryRow(ctx, query, orderID).Scan(
		&o.ID, &o.Category, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindInternal, "get order", err)
	}

	itemsQuery := `
		SELECT i.id, i.order_id, i.product_id, i.quantity_ordered,
		       COALESCE(SUM(a.quantity) FILTER (WHERE a.status <> 'RELEASED'), 0) AS allocated
		FROM order_items i
		LEFT JOIN inventory_allocations a ON a.order_item_id = i.id
		WHERE i.order_id = $1
		GROUP BY i.id, i.order_id, i.product_id, i.quantity_ordered
		ORDER BY i.id`
	rows, err := r.q.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "get order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.QuantityOrdered, &it.QuantityAllocated); err != nil {
			return nil, domain.WrapError(domain.KindInternal, "scan order item", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindInternal, "iterate order items", err)
	}
	return &o, nil
}

// UpdateStatus escribe el nuevo estado de la orden.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, orderID, status)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.KindInternal, fmt.Sprintf("orden %s no existe", orderID))
	}
	return nil
}
