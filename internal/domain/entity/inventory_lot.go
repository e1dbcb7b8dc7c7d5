package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estrategias de selección de lote.
const (
	StrategyFIFO = "FIFO" // primero lo más antiguo (fecha de recepción)
	StrategyFEFO = "FEFO" // primero lo que vence antes (fecha de vencimiento)
)

// Estados de ciclo de vida del lote.
const (
	LotStatusActive      = "ACTIVE"
	LotStatusQuarantined = "QUARANTINED"
	LotStatusExpired     = "EXPIRED"
	LotStatusDepleted    = "DEPLETED"
)

// InventoryLot es un lote físico trazable en una bodega.
// Invariantes: Reserved >= 0 y Reserved <= OnHand en todo momento; la columna
// reserved solo se muta por el camino del update condicional del repositorio.
type InventoryLot struct {
	ID          string
	WarehouseID string
	ProductID   string
	LotNumber   string
	OnHand      decimal.Decimal
	Reserved    decimal.Decimal
	ReceivedAt  time.Time
	ExpiresAt   *time.Time // nil = producto sin vencimiento
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available devuelve la cantidad disponible (en mano menos reservada).
func (l *InventoryLot) Available() decimal.Decimal {
	return l.OnHand.Sub(l.Reserved)
}
