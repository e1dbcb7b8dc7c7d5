package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/audit"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/fulfillment-api/internal/domain/repository"
)

// RecordActivityInput entrada para una fila del log de actividad.
// Delta siempre es positivo; el signo lo aporta la operación (deducción o adición).
type RecordActivityInput struct {
	LotID            string
	PreviousQuantity decimal.Decimal // disponibilidad observada antes del cambio
	Delta            decimal.Decimal
	Actor            string
	Comment          string
	Metadata         map[string]string
}

// ActivityWriter escribe filas append-only del rastro de auditoría. Calcula
// new = previous ± delta y el checksum que ata (lote, cantidades, timestamp,
// actor). Nunca actualiza ni borra filas existentes. Lo usan la asignación
// (deducción) y la liberación compensatoria (adición): operaciones simétricas
// distinguidas por el tipo de acción.
type ActivityWriter struct{}

// NewActivityWriter construye el escritor.
func NewActivityWriter() *ActivityWriter { return &ActivityWriter{} }

// RecordDeduction registra una deducción (ALLOCATE): new = previous − delta.
func (w *ActivityWriter) RecordDeduction(ctx context.Context, logRepo repository.ActivityLogRepository, in RecordActivityInput) (*entity.InventoryActivityLogEntry, error) {
	return w.record(ctx, logRepo, entity.ActivityActionAllocate, in, in.Delta.Neg())
}

// RecordAddition registra una adición compensatoria (RELEASE): new = previous + delta.
func (w *ActivityWriter) RecordAddition(ctx context.Context, logRepo repository.ActivityLogRepository, in RecordActivityInput) (*entity.InventoryActivityLogEntry, error) {
	return w.record(ctx, logRepo, entity.ActivityActionRelease, in, in.Delta)
}

func (w *ActivityWriter) record(ctx context.Context, logRepo repository.ActivityLogRepository, action string, in RecordActivityInput, change decimal.Decimal) (*entity.InventoryActivityLogEntry, error) {
	if in.LotID == "" || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Delta.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// Truncado a microsegundos: la misma precisión que TIMESTAMPTZ persiste,
	// para que la entidad en memoria y la fila releída compartan checksum.
	now := time.Now().UTC().Truncate(time.Microsecond)
	e := &entity.InventoryActivityLogEntry{
		ID:               uuid.New().String(),
		LotID:            in.LotID,
		Action:           action,
		PreviousQuantity: in.PreviousQuantity,
		QuantityChange:   change,
		NewQuantity:      in.PreviousQuantity.Add(change),
		Actor:            in.Actor,
		Comment:          in.Comment,
		Metadata:         in.Metadata,
		CreatedAt:        now,
	}
	e.Checksum = audit.Checksum(e.LotID, e.PreviousQuantity, e.NewQuantity, e.CreatedAt, e.Actor)
	if err := logRepo.Append(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
