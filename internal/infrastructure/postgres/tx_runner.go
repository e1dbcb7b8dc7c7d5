package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/domain"
)

// Ensure TxRunner implements allocation.TxRunner.
var _ allocation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Es la única frontera transaccional del motor: todas las escrituras de una
// asignación o un avance de fulfillment comparten una misma tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un timeout del caller antes del Commit produce Rollback
// completo: ni cambio de cantidad parcial ni fila de auditoría huérfana.
func (r *TxRunner) Run(ctx context.Context, fn func(repos allocation.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.WrapError(domain.KindInternal, "begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := allocation.TxRepos{
		Orders:      NewOrderRepository(tx),
		Lots:        NewInventoryLotRepository(tx),
		Allocations: NewAllocationRepository(tx),
		ActivityLog: NewActivityLogRepository(tx),
		Shipments:   NewShipmentRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.WrapError(domain.KindInternal, "commit transaction", err)
	}
	return nil
}
