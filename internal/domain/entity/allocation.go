package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una asignación. Se crea ALLOCATED (la orden estaba en estado
// asignable) y progresa junto con la orden; RELEASED es el camino de
// compensación. La cantidad nunca se edita después de creada.
const (
	AllocationStatusAllocated = "ALLOCATED"
	AllocationStatusFulfilled = "FULFILLED"
	AllocationStatusShipped   = "SHIPPED"
	AllocationStatusReleased  = "RELEASED"
)

// InventoryAllocation es la reserva de una cantidad de un lote contra una orden.
// Semántica de libro mayor: se inserta una vez, nunca se borra; las correcciones
// son entradas compensatorias en el log de actividad, no mutaciones.
type InventoryAllocation struct {
	ID          string
	OrderID     string
	OrderItemID string
	WarehouseID string
	LotID       string
	Quantity    decimal.Decimal
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
