package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-api/internal/application/allocation"
	"github.com/jhoicas/fulfillment-api/internal/application/fulfillment"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AllocateUC    *allocation.AllocateInventoryUseCase
	ReleaseUC     *allocation.ReleaseAllocationUseCase
	QueryUC       *allocation.QueryUseCase
	AdvanceUC     *fulfillment.AdvanceFulfillmentUseCase
	PackingSlipUC *fulfillment.PackingSlipUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todas las rutas de negocio requieren
// Bearer Token; las de escritura exigen además el permiso correspondiente.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	allocationHandler := NewAllocationHandler(deps.AllocateUC, deps.ReleaseUC, deps.QueryUC)
	fulfillmentHandler := NewFulfillmentHandler(deps.AdvanceUC, deps.PackingSlipUC)

	// Asignaciones (escritura)
	allocations := protected.Group("/allocations", RequirePermission(PermAllocateWrite))
	allocations.Post("/", allocationHandler.Allocate)
	allocations.Post("/:id/release", allocationHandler.Release)

	// Órdenes: lecturas + avance de fulfillment
	orders := protected.Group("/orders")
	orders.Get("/:orderID/allocations", RequirePermission(PermInventoryRead), allocationHandler.ListOrderAllocations)
	orders.Post("/:orderID/fulfillment", RequirePermission(PermFulfillmentWrite), fulfillmentHandler.Advance)

	// Lotes y log de actividad (lectura)
	lots := protected.Group("/lots", RequirePermission(PermInventoryRead))
	lots.Get("/", allocationHandler.ListLots)
	lots.Get("/:id/activity", allocationHandler.ListActivity)

	// Envíos y guía de empaque (lectura)
	shipments := protected.Group("/shipments", RequirePermission(PermInventoryRead))
	shipments.Get("/:id", fulfillmentHandler.GetShipment)
	shipments.Get("/:id/packing-slip", fulfillmentHandler.GetPackingSlip)
}
