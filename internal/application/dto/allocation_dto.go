package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// AllocateRequest body para POST /api/allocations.
type AllocateRequest struct {
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Strategy    string          `json:"strategy,omitempty"` // FIFO | FEFO; vacío = default
	Comment     string          `json:"comment,omitempty"`
}

// ReleaseRequest body para POST /api/allocations/:id/release.
type ReleaseRequest struct {
	Comment string `json:"comment,omitempty"`
}

// AllocationResponse representación de una asignación.
type AllocationResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	OrderItemID string          `json:"order_item_id"`
	WarehouseID string          `json:"warehouse_id"`
	LotID       string          `json:"lot_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewAllocationResponse mapea la entidad a su representación HTTP.
func NewAllocationResponse(a *entity.InventoryAllocation) AllocationResponse {
	return AllocationResponse{
		ID:          a.ID,
		OrderID:     a.OrderID,
		OrderItemID: a.OrderItemID,
		WarehouseID: a.WarehouseID,
		LotID:       a.LotID,
		Quantity:    a.Quantity,
		Status:      a.Status,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	}
}

// LotResponse representación de un lote para los dropdowns/tablas.
type LotResponse struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	LotNumber   string          `json:"lot_number"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	ReceivedAt  time.Time       `json:"received_at"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Status      string          `json:"status"`
}

// NewLotResponse mapea la entidad a su representación HTTP.
func NewLotResponse(l *entity.InventoryLot) LotResponse {
	return LotResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		ProductID:   l.ProductID,
		LotNumber:   l.LotNumber,
		OnHand:      l.OnHand,
		Reserved:    l.Reserved,
		Available:   l.Available(),
		ReceivedAt:  l.ReceivedAt,
		ExpiresAt:   l.ExpiresAt,
		Status:      l.Status,
	}
}

// ActivityLogResponse representación de una fila del log de actividad.
// ChecksumValid se recalcula al servir la fila: detecta filas alteradas.
type ActivityLogResponse struct {
	ID               string            `json:"id"`
	LotID            string            `json:"lot_id"`
	Action           string            `json:"action"`
	PreviousQuantity decimal.Decimal   `json:"previous_quantity"`
	QuantityChange   decimal.Decimal   `json:"quantity_change"`
	NewQuantity      decimal.Decimal   `json:"new_quantity"`
	Actor            string            `json:"actor"`
	Comment          string            `json:"comment,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Checksum         string            `json:"checksum"`
	ChecksumValid    bool              `json:"checksum_valid"`
	CreatedAt        time.Time         `json:"created_at"`
}
