package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// InventoryLotRepository define el puerto de lotes físicos.
// La columna reserved SOLO se muta por ReserveQuantity / ReleaseQuantity
// (update condicional atómico); cualquier otro camino de escritura es un bug.
type InventoryLotRepository interface {
	GetByID(ctx context.Context, lotID string) (*entity.InventoryLot, error)

	// GetAvailableLot devuelve el mejor lote único que cubre la cantidad
	// completa solicitada, según la estrategia (FIFO: recepción ascendente;
	// FEFO: vencimiento ascendente; desempate por id menor). nil si ningún
	// lote individual alcanza — por diseño no se parte la solicitud entre
	// varios lotes.
	GetAvailableLot(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal, strategy string) (*entity.InventoryLot, error)

	// ReserveQuantity incrementa reserved en quantity solo si la disponibilidad
	// alcanza (UPDATE ... WHERE on_hand - reserved >= quantity). ok=false
	// significa que otro proceso ganó la carrera: conflicto reintentable, nunca
	// disponibilidad negativa. Devuelve la nueva disponibilidad si ok.
	ReserveQuantity(ctx context.Context, lotID string, quantity decimal.Decimal) (ok bool, newAvailable decimal.Decimal, err error)

	// ReleaseQuantity es la operación simétrica: decrementa reserved solo si
	// reserved >= quantity.
	ReleaseQuantity(ctx context.Context, lotID string, quantity decimal.Decimal) (ok bool, newAvailable decimal.Decimal, err error)

	// ListByProduct lista los lotes de un producto (bodega vacía = todas);
	// consulta para los colaboradores de presentación.
	ListByProduct(ctx context.Context, productID, warehouseID string) ([]*entity.InventoryLot, error)
}
