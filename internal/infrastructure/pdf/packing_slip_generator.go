// Package pdf implementa la generación de la guía de empaque (packing slip)
// que acompaña cada envío despachado desde bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Guía de empaque  │  N° Envío + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORDEN: ID + estado + bodega de origen                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Lote | Cantidad | Estado                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Transportadora + código de barras del tracking     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appfulfillment "github.com/jhoicas/fulfillment-api/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSlipGenerator implementa fulfillment.PackingSlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct{}

// NewMarotoSlipGenerator construye el generador.
func NewMarotoSlipGenerator() *MarotoSlipGenerator { return &MarotoSlipGenerator{} }

var _ appfulfillment.PackingSlipGenerator = (*MarotoSlipGenerator)(nil)

// GeneratePackingSlip genera el PDF de la guía y devuelve sus bytes.
func (g *MarotoSlipGenerator) GeneratePackingSlip(
	_ context.Context,
	shipment *entity.Shipment,
	order *entity.Order,
	allocations []*entity.InventoryAllocation,
	lots map[string]*entity.InventoryLot,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de empaque "+shipment.ID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(shipment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(orderRow(shipment, order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas del envío
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(allocations, lots) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(allocations))

	// Footer con transportadora y tracking
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range trackingFooterRows(shipment) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar guía de empaque: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° de envío + fecha (der).
func headerRow(shipment *entity.Shipment) core.Row {
	fecha := shipment.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("GUÍA DE EMPAQUE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+shipment.Status, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ENVÍO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shipment.ID, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// orderRow: datos de la orden y la bodega de origen.
func orderRow(shipment *entity.Shipment, order *entity.Order) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ORDEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(order.ID, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Estado: %s   |   Bodega: %s   |   Preparado por: %s",
				order.Status,
				shipment.WarehouseID,
				nonEmpty(shipment.CreatedBy, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Lote", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Estado", 2, align.Center),
	)
}

// tableDetailRows: una fila por asignación incluida en el envío.
func tableDetailRows(
	allocations []*entity.InventoryAllocation,
	lots map[string]*entity.InventoryLot,
) []core.Row {
	result := make([]core.Row, 0, len(allocations))
	for _, a := range allocations {
		lotLabel := a.LotID
		if lot, ok := lots[a.LotID]; ok && lot.LotNumber != "" {
			lotLabel = lot.LotNumber
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				productLabel(a, lots),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				lotLabel,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				a.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				a.Status,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// summaryRow: total de unidades y número de líneas.
func summaryRow(allocations []*entity.InventoryAllocation) core.Row {
	total := totalQuantity(allocations)
	return row.New(10).Add(
		col.New(6), // espacio izquierdo
		col.New(4).Add(text.New("TOTAL UNIDADES:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// trackingFooterRows: transportadora + código de barras del número de guía.
func trackingFooterRows(shipment *entity.Shipment) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New("Transportadora: "+nonEmpty(shipment.Carrier, "—"), props.Text{
				Size: 8, Top: 1, Color: colorGray,
			}),
		)),
	}

	if shipment.TrackingNumber != "" {
		rows = append(rows, row.New(24).Add(
			col.New(2),
			col.New(8).Add(code.NewBar(shipment.TrackingNumber, props.Barcode{
				Percent: 90,
				Center:  true,
			})),
			col.New(2),
		))
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(shipment.TrackingNumber, props.Text{
				Size: 8, Align: align.Center, Color: colorGray,
			}),
		)))
	} else {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Pendiente de asignar número de guía", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// productLabel resuelve el producto de la asignación vía su lote.
func productLabel(a *entity.InventoryAllocation, lots map[string]*entity.InventoryLot) string {
	if lot, ok := lots[a.LotID]; ok && lot.ProductID != "" {
		return lot.ProductID
	}
	return a.LotID
}

func totalQuantity(allocations []*entity.InventoryAllocation) string {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Quantity)
	}
	return total.String()
}
