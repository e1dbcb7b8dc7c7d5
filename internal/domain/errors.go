package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores que cruzan la frontera del núcleo.
// Ningún error crudo de la base de datos sale de los adaptadores: siempre
// se envuelve en una de estas categorías.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"  // orden, ítem o lote inexistente
	KindValidation Kind = "VALIDATION" // entrada o estado de la orden inválido
	KindConflict   Kind = "CONFLICT"   // perdió la carrera del update condicional (reintentable)
	KindBusiness   Kind = "BUSINESS"   // regla de negocio de más alto nivel
	KindInternal   Kind = "INTERNAL"   // fallo de infraestructura (BD, conexión)
)

// Error es el error estructurado del dominio: categoría + mensaje legible.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap expone la causa para errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is permite comparar contra los errores sentinela de este paquete:
// dos errores de dominio son "iguales" si comparten categoría y mensaje.
func (e *Error) Is(target error) bool {
	var de *Error
	if !errors.As(target, &de) {
		return false
	}
	return e.Kind == de.Kind && e.Message == de.Message
}

// NewError construye un error de dominio.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError envuelve una causa (típicamente un error de repositorio) en una categoría.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf devuelve la categoría de un error, o "" si no es un error de dominio.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsRetryable indica si el caller puede reintentar con los mismos parámetros.
// Solo los conflictos de concurrencia son reintentables; la política de reintento
// es responsabilidad del caller, no del núcleo.
func IsRetryable(err error) bool {
	return KindOf(err) == KindConflict
}

// Errores de dominio frecuentes (mensaje fijo, misma categoría siempre).
var (
	ErrOrderNotFound       = NewError(KindNotFound, "orden no encontrada o sin ítems")
	ErrLotNotFound         = NewError(KindNotFound, "ningún lote satisface la cantidad solicitada")
	ErrAllocationNotFound  = NewError(KindNotFound, "asignación no encontrada")
	ErrShipmentNotFound    = NewError(KindNotFound, "envío no encontrado")
	ErrWarehouseNotFound   = NewError(KindNotFound, "bodega no encontrada")
	ErrInvalidInput        = NewError(KindValidation, "entrada inválida")
	ErrOrderNotAllocatable = NewError(KindValidation, "la orden no está en un estado asignable")
	ErrProductNotOnOrder   = NewError(KindValidation, "el producto no pertenece a la orden")
	ErrQuantityExceeded    = NewError(KindValidation, "la cantidad excede lo pendiente del ítem")
	ErrLotConflict         = NewError(KindConflict, "otro proceso reservó el lote primero; reintente")
	ErrInvalidTransition   = NewError(KindBusiness, "transición de estado no permitida")
	ErrNothingToFulfill    = NewError(KindBusiness, "la orden no tiene asignaciones activas para despachar")
)
