// Package fulfillment: máquina de estados de la orden y sus reglas de avance.
// Ninguna transición puede saltarse un estado; el orquestador valida aquí antes
// de escribir, dentro de la misma transacción que la escritura.
package fulfillment

import "github.com/jhoicas/fulfillment-api/internal/domain/entity"

// transitions lista, por estado origen, los destinos permitidos.
// ALLOCATED → PARTIAL cubre la liberación compensatoria de una asignación.
var transitions = map[string][]string{
	entity.OrderStatusConfirmed:  {entity.OrderStatusAllocating, entity.OrderStatusCancelled},
	entity.OrderStatusAllocating: {entity.OrderStatusAllocated, entity.OrderStatusPartial, entity.OrderStatusCancelled},
	entity.OrderStatusPartial:    {entity.OrderStatusAllocated, entity.OrderStatusFulfilled, entity.OrderStatusCancelled},
	entity.OrderStatusAllocated:  {entity.OrderStatusPartial, entity.OrderStatusFulfilled, entity.OrderStatusCancelled},
	entity.OrderStatusFulfilled:  {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:    {},
	entity.OrderStatusCancelled:  {},
}

// IsStatus indica si s es un estado de orden conocido.
func IsStatus(s string) bool {
	if s == entity.OrderStatusPending {
		return true
	}
	_, ok := transitions[s]
	return ok
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(s string) bool {
	return s == entity.OrderStatusShipped || s == entity.OrderStatusCancelled
}

// CanTransition valida el avance from → to según la tabla.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllocationStatusFor deriva el estado de una asignación a partir del estado de
// la orden en el momento de crearla o avanzarla.
func AllocationStatusFor(orderStatus string) string {
	switch orderStatus {
	case entity.OrderStatusFulfilled:
		return entity.AllocationStatusFulfilled
	case entity.OrderStatusShipped:
		return entity.AllocationStatusShipped
	default:
		return entity.AllocationStatusAllocated
	}
}
