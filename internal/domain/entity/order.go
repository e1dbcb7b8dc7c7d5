package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden. El motor solo avanza estados hacia adelante:
// CONFIRMED → ALLOCATING → ALLOCATED | PARTIAL → FULFILLED → SHIPPED.
// CANCELLED es alcanzable desde cualquier estado no terminal.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusAllocating = "ALLOCATING"
	OrderStatusAllocated  = "ALLOCATED"
	OrderStatusPartial    = "PARTIAL"
	OrderStatusFulfilled  = "FULFILLED"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order es la orden confirmada contra la que se reserva inventario.
// Propiedad del subsistema de órdenes; el motor solo la lee y avanza su estado.
type Order struct {
	ID        string
	Category  string
	Status    string
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem es una línea de la orden. QuantityAllocated es derivada: suma de
// asignaciones vivas (no liberadas) del ítem; nunca puede superar QuantityOrdered.
type OrderItem struct {
	ID                string
	OrderID           string
	ProductID         string
	QuantityOrdered   decimal.Decimal
	QuantityAllocated decimal.Decimal
}

// Remaining devuelve la cantidad pendiente por asignar del ítem.
func (i OrderItem) Remaining() decimal.Decimal {
	return i.QuantityOrdered.Sub(i.QuantityAllocated)
}

// FullyCovered indica si todas las líneas tienen su cantidad completa asignada.
func (o *Order) FullyCovered() bool {
	for _, it := range o.Items {
		if it.Remaining().GreaterThan(decimal.Zero) {
			return false
		}
	}
	return len(o.Items) > 0
}

// ItemForProduct busca la línea que corresponde al producto solicitado.
func (o *Order) ItemForProduct(productID string) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}
