package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/domain/audit"
)

// AllocationHandler maneja las peticiones HTTP de asignación de inventario (protegido).
type AllocationHandler struct {
	allocate *allocation.AllocateInventoryUseCase
	release  *allocation.ReleaseAllocationUseCase
	queries  *allocation.QueryUseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(
	allocate *allocation.AllocateInventoryUseCase,
	release *allocation.ReleaseAllocationUseCase,
	queries *allocation.QueryUseCase,
) *AllocationHandler {
	return &AllocationHandler{allocate: allocate, release: release, queries: queries}
}

// Allocate reserva stock de un lote contra una orden confirmada.
// POST /api/allocations
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	alloc, err := h.allocate.Allocate(c.Context(), allocation.AllocationInput{
		OrderID:     in.OrderID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Strategy:    in.Strategy,
		ActorID:     actorID,
		Comment:     in.Comment,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAllocationResponse(alloc))
}

// Release libera una asignación activa y devuelve el stock al lote.
// POST /api/allocations/:id/release
func (h *AllocationHandler) Release(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.ReleaseRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	alloc, err := h.release.Release(c.Context(), id, actorID, in.Comment)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.NewAllocationResponse(alloc))
}

// ListOrderAllocations lista las asignaciones de una orden.
// GET /api/orders/:orderID/allocations
func (h *AllocationHandler) ListOrderAllocations(c *fiber.Ctx) error {
	orderID := c.Params("orderID")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "orderID requerido"})
	}
	allocs, err := h.queries.ListOrderAllocations(c.Context(), orderID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.NewAllocationResponse(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "allocations": out})
}

// ListLots lista lotes con su disponibilidad (on_hand, reserved, available).
// GET /api/lots?product_id=...&warehouse_id=...
func (h *AllocationHandler) ListLots(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}
	lots, err := h.queries.ListLots(c.Context(), productID, c.Query("warehouse_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.NewLotResponse(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// ListActivity lista el log de actividad de un lote, más reciente primero.
// Cada fila se sirve con checksum_valid recalculado sobre sus campos.
// GET /api/lots/:id/activity?limit=&offset=
func (h *AllocationHandler) ListActivity(c *fiber.Ctx) error {
	lotID := c.Params("id")
	if lotID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	entries, err := h.queries.ListActivity(c.Context(), lotID, page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityLogResponse{
			ID:               e.ID,
			LotID:            e.LotID,
			Action:           e.Action,
			PreviousQuantity: e.PreviousQuantity,
			QuantityChange:   e.QuantityChange,
			NewQuantity:      e.NewQuantity,
			Actor:            e.Actor,
			Comment:          e.Comment,
			Metadata:         e.Metadata,
			Checksum:         e.Checksum,
			ChecksumValid:    audit.Verify(e),
			CreatedAt:        e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "activity": out})
}
