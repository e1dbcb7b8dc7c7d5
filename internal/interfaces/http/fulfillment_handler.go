package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/application/fulfillment"
)

// FulfillmentHandler maneja el avance de fulfillment y los envíos (protegido).
type FulfillmentHandler struct {
	advance     *fulfillment.AdvanceFulfillmentUseCase
	packingSlip *fulfillment.PackingSlipUseCase
}

// NewFulfillmentHandler construye el handler.
func NewFulfillmentHandler(
	advance *fulfillment.AdvanceFulfillmentUseCase,
	packingSlip *fulfillment.PackingSlipUseCase,
) *FulfillmentHandler {
	return &FulfillmentHandler{advance: advance, packingSlip: packingSlip}
}

// Advance mueve una orden a FULFILLED, SHIPPED o CANCELLED.
// POST /api/orders/:orderID/fulfillment
func (h *FulfillmentHandler) Advance(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "orderID requerido"})
	}
	var in dto.AdvanceFulfillmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.advance.Advance(c.Context(), fulfillment.FulfillmentInput{
		OrderID:        orderID,
		TargetStatus:   in.TargetStatus,
		TrackingNumber: in.TrackingNumber,
		Carrier:        in.Carrier,
		ActorID:        actorID,
		Comment:        in.Comment,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.FulfillmentResultResponse{
		OrderID:             res.OrderID,
		PreviousStatus:      res.PreviousStatus,
		Status:              res.Status,
		Shipment:            dto.NewShipmentResponse(res.Shipment),
		AllocationsAffected: res.AllocationsAffected,
	})
}

// GetShipment devuelve un envío por su ID.
// GET /api/shipments/:id
func (h *FulfillmentHandler) GetShipment(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	shipment, err := h.packingSlip.GetShipment(c.Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewShipmentResponse(shipment))
}

// GetPackingSlip genera y devuelve la guía de empaque en PDF.
// GET /api/shipments/:id/packing-slip
func (h *FulfillmentHandler) GetPackingSlip(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.packingSlip.GeneratePackingSlip(c.Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="packing-slip-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}
