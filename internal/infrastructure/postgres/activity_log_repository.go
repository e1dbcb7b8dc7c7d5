package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementación append-only sobre PostgreSQL (usable con pool
// o tx). Deliberadamente no expone UPDATE ni DELETE: las correcciones son
// entradas compensatorias nuevas.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Append inserta una fila del log de actividad.
func (r *ActivityLogRepo) Append(ctx context.Context, e *entity.InventoryActivityLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_activity_log
			(id, lot_id, action, previous_quantity, quantity_change, new_quantity, actor, comment, metadata, checksum, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.LotID, e.Action, e.PreviousQuantity, e.QuantityChange, e.NewQuantity,
		e.Actor, e.Comment, e.Metadata, e.Checksum, e.CreatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "append activity log", err)
	}
	return nil
}

// ListByLot lista el log de un lote, lo más reciente primero.
func (r *ActivityLogRepo) ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.InventoryActivityLogEntry, error) {
	query := `
		SELECT id, lot_id, action, previous_quantity, quantity_change, new_quantity, actor, comment, metadata, checksum, created_at
		FROM inventory_activity_log
		WHERE lot_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, lotID, limit, offset)
	if err != nil {
		return nil, domain.WrapError(domain.KindInternal, "list activity log", err)
	}
	defer rows.Close()
	var list []*entity.InventoryActivityLogEntry
	for rows.Next() {
		var e entity.InventoryActivityLogEntry
		if err := rows.Scan(
			&e.ID, &e.LotID, &e.Action, &e.PreviousQuantity, &e.QuantityChange, &e.NewQuantity,
			&e.Actor, &e.Comment, &e.Metadata, &e.Checksum, &e.CreatedAt,
		); err != nil {
			return nil, domain.WrapError(domain.KindInternal, "scan activity log entry", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
