package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// OrderRepository define el puerto de lectura de órdenes y avance de estado.
// La columna status solo se muta por este puerto; los ítems son de solo lectura
// para el motor (pertenecen al subsistema de órdenes).
type OrderRepository interface {
	// GetWithItems devuelve la orden con sus líneas y la cantidad ya asignada
	// por línea (derivada de las asignaciones vivas). nil si no existe.
	GetWithItems(ctx context.Context, orderID string) (*entity.Order, error)
	// GetForUpdateWithItems igual que GetWithItems pero bloquea la fila de la
	// orden (SELECT FOR UPDATE) para serializar el avance de estado.
	GetForUpdateWithItems(ctx context.Context, orderID string) (*entity.Order, error)
	// UpdateStatus escribe el nuevo estado. La validación de la transición es
	// responsabilidad del caso de uso, dentro de la misma transacción.
	UpdateStatus(ctx context.Context, orderID, status string) error
}
