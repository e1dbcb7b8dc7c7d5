package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones registradas en el log de actividad. Deducción y adición son
// operaciones simétricas distinguidas solo por el tipo de acción.
const (
	ActivityActionAllocate = "ALLOCATE" // deducción: reserva contra una orden
	ActivityActionRelease  = "RELEASE"  // adición: liberación compensatoria
)

// InventoryActivityLogEntry es una fila append-only del rastro de auditoría.
// Invariante: NewQuantity = PreviousQuantity + QuantityChange (el delta lleva
// signo). El checksum ata (lote, cantidades, timestamp, actor) y permite
// detectar filas alteradas o escrituras saltadas.
type InventoryActivityLogEntry struct {
	ID               string
	LotID            string
	Action           string
	PreviousQuantity decimal.Decimal
	QuantityChange   decimal.Decimal
	NewQuantity      decimal.Decimal
	Actor            string
	Comment          string
	Metadata         map[string]string
	Checksum         string
	CreatedAt        time.Time
}
