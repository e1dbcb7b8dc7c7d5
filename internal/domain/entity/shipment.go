package entity

import "time"

// Estados del envío. Independientes del estado de la orden pero acotados por él:
// un envío nace PACKED cuando la orden pasa a FULFILLED y se despacha
// (DISPATCHED) cuando la orden pasa a SHIPPED.
const (
	ShipmentStatusPacked     = "PACKED"
	ShipmentStatusDispatched = "DISPATCHED"
	ShipmentStatusCancelled  = "CANCELLED"
)

// Shipment agrupa una o más asignaciones de una orden en un despacho físico.
type Shipment struct {
	ID             string
	OrderID        string
	WarehouseID    string
	Status         string
	TrackingNumber string
	Carrier        string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
