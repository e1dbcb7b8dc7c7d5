package allocation

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulfillment-api/internal/domain"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// MatchOrderItem es el gatekeeper de la orden: lectura pura + validación, sin
// efectos secundarios. Dada la orden ya cargada, el producto y la cantidad
// solicitada, devuelve la línea que corresponde o falla:
//   - NotFound si la orden no existe o no tiene ítems.
//   - Validation si el estado actual no está en allocatable (constante de
//     configuración, no hard-coded por caller).
//   - Validation si el producto no está en la orden o la cantidad excede lo
//     pendiente (ordenado − ya asignado) del ítem.
func MatchOrderItem(order *entity.Order, productID string, quantity decimal.Decimal, allocatable []string) (*entity.OrderItem, error) {
	if order == nil || len(order.Items) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	if !slices.Contains(allocatable, order.Status) {
		return nil, domain.ErrOrderNotAllocatable
	}
	item := order.ItemForProduct(productID)
	if item == nil {
		return nil, domain.ErrProductNotOnOrder
	}
	if quantity.GreaterThan(item.Remaining()) {
		return nil, domain.ErrQuantityExceeded
	}
	return item, nil
}
