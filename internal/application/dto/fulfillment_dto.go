package dto

import (
	"time"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// AdvanceFulfillmentRequest body para POST /api/orders/:orderID/fulfillment.
type AdvanceFulfillmentRequest struct {
	TargetStatus   string `json:"target_status"` // FULFILLED | SHIPPED | CANCELLED
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	Comment        string `json:"comment,omitempty"`
}

// ShipmentResponse representación de un envío.
type ShipmentResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	WarehouseID    string    `json:"warehouse_id"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewShipmentResponse mapea la entidad a su representación HTTP.
func NewShipmentResponse(s *entity.Shipment) *ShipmentResponse {
	if s == nil {
		return nil
	}
	return &ShipmentResponse{
		ID:             s.ID,
		OrderID:        s.OrderID,
		WarehouseID:    s.WarehouseID,
		Status:         s.Status,
		TrackingNumber: s.TrackingNumber,
		Carrier:        s.Carrier,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
	}
}

// FulfillmentResultResponse resultado del avance de fulfillment.
type FulfillmentResultResponse struct {
	OrderID             string            `json:"order_id"`
	PreviousStatus      string            `json:"previous_status"`
	Status              string            `json:"status"`
	Shipment            *ShipmentResponse `json:"shipment,omitempty"`
	AllocationsAffected int               `json:"allocations_affected"`
}
