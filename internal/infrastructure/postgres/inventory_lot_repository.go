package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.InventoryLotRepository = (*InventoryLotRepo)(nil)

const lotColumns = `id, warehouse_id, product_id, lot_number, on_hand, reserved, received_at, expires_at, status, created_at, updated_at`

// InventoryLotRepo implementación de InventoryLotRepository sobre PostgreSQL
// (usable con pool o tx). La columna reserved solo se muta por los updates
// condicionales de este adaptador.
type InventoryLotRepo struct {
	q Querier
}

// NewInventoryLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLotRepository(q Querier) *InventoryLotRepo {
	return &InventoryLotRepo{q: q}
}

func scanLot(row pgx.Row) (*entity.InventoryLot, error) {
	var l entity.InventoryLot
	err := row.Scan(
		&l.ID, &l.WarehouseID, &l.ProductID, &l.LotNumber,
		&l.OnHand, &l.Reserved, &l.ReceivedAt, &l.ExpiresAt,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID obtiene un lote por id.
func (r *InventoryLotRepo) GetByID(ctx context.Context, lotID string) (*entity.InventoryLot, error) {
	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, lotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindInternal, "get lot", err)
	}
	return lot, nil
}

// GetAvailableLot devuelve el mejor lote único que cubre la cantidad completa.
// FEFO ordena por vencimiento ascendente (NULLS LAST: sin vencimiento al final);
// FIFO por fecha de recepción ascendente. Desempate por id menor para
// determinismo. Solo lotes ACTIVE con disponibilidad suficiente son elegibles.
func (r *InventoryLotRepo) GetAvailableLot(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal, strategy string) (*entity.InventoryLot, error) {
	orderBy := "received_at ASC, id ASC"
	if strategy == entity.StrategyFEFO {
		orderBy = "expires_at ASC NULLS LAST, id ASC"
	}
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE product_id = $1 AND warehouse_id = $2
		  AND status = $3
		  AND on_hand - reserved >= $4
		ORDER BY ` + orderBy + `
		LIMIT 1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, productID, warehouseID, entity.LotStatusActive, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindInternal, "get available lot", err)
	}
	return lot, nil
}

// ReserveQuantity incremento condicional atómico de reserved: dos callers
// concurrentes sobre el mismo lote se serializan aquí; el que pierde la
// precondición recibe ok=false, nunca disponibilidad negativa.
func (r *InventoryLotRepo) ReserveQuantity(ctx context.Context, lotID string, quantity decimal.Decimal) (bool, decimal.Decimal, error) {
	query := `
		UPDATE inventory_lots
		SET reserved = reserved + $2, updated_at = now()
		WHERE id = $1 AND on_hand - reserved >= $2
		RETURNING on_hand - reserved`
	var newAvailable decimal.Decimal
	err := r.q.QueryRow(ctx, query, lotID, quantity).Scan(&newAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Precondición fallida: otro proceso reservó primero
			return false, decimal.Zero, nil
		}
		return false, decimal.Zero, domain.WrapError(domain.KindInternal, "reserve lot quantity", err)
	}
	return true, newAvailable, nil
}

// ReleaseQuantity operación simétrica: decrementa reserved solo si alcanza.
func (r *InventoryLotRepo) ReleaseQuantity(ctx context.Context, lotID string, quantity decimal.Decimal) (bool, decimal.Decimal, error) {
	query := `
		UPDATE inventory_lots
		SET reserved = reserved - $2, updated_at = now()
		WHERE id = $1 AND reserved >= $2
		RETURNING on_hand - reserved`
	var newAvailable decimal.Decimal
	err := r.q.QueryRow(ctx, query, lotID, quantity).Scan(&newAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, decimal.Zero, nil
		}
		return false, decimal.Zero, domain.WrapError(domain.KindInternal, "release lot quantity", err)
	}
	return true, newAvailable, nil
}

// ListByProduct lista los lotes de un producto; bodega vacía = todas.
func (r *InventoryLotRepo) ListByProduct(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM inventory_lots
		WHERE product_id = $1 AND ($2 = '' OR warehouse_id = $2)
		ORDER BY received_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "list lots", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLot
	for rows.Next() {
		var l entity.InventoryLot
		if err := rows.Scan(
			&l.ID, &l.WarehouseID, &l.ProductID, &l.LotNumber,
			&l.OnHand, &l.Reserved, &l.ReceivedAt, &l.ExpiresAt,
			&l.Status, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, domain.WrapError(domain.KindInternal, "scan lot", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
