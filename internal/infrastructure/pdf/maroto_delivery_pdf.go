// Package pdf implementa la representación gráfica de la remisión
// (nota de entrega) usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: REMISIÓN + Número  │  Fecha + Estado              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT + Dirección + Teléfono               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Unidad | Cant | P.Unit | Tot │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Flete / TOTAL                          │
//	│  FOOTER: Observaciones + Firmas                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/tu-usuario/inventario-api/internal/application/deliveries"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoDeliveryPDF implementa deliveries.DeliveryPDFGenerator usando Maroto v2.
type MarotoDeliveryPDF struct{}

// NewMarotoDeliveryPDF construye el generador.
func NewMarotoDeliveryPDF() *MarotoDeliveryPDF { return &MarotoDeliveryPDF{} }

var _ deliveries.DeliveryPDFGenerator = (*MarotoDeliveryPDF)(nil)

// GenerateDeliveryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoDeliveryPDF) GenerateDeliveryPDF(
	_ context.Context,
	delivery *entity.Delivery,
	components map[string]deliveries.PDFComponentInfo,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión "+delivery.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(delivery))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(delivery))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(delivery.Items, components) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(delivery))

	m.AddRows(line.NewRow(3))
	for _, r := range footerRows(delivery) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + número (izq) y fecha + estado (der).
func headerRow(d *entity.Delivery) core.Row {
	fecha := d.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMISIÓN / NOTA DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(d.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Estado: "+statusLabel(d.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 9,
			}),
		),
	)
}

// customerRow: datos del cliente destinatario.
func customerRow(d *entity.Delivery) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(d.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Dirección: %s   |   Tel: %s",
				nonEmpty(d.CustomerNIT, "—"),
				nonEmpty(d.CustomerAddr, "—"),
				nonEmpty(d.CustomerPhone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Und.", 1, align.Center),
		h("Cant.", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por ítem de la remisión.
func tableItemRows(items []entity.DeliveryItem, components map[string]deliveries.PDFComponentInfo) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		info := components[it.ComponentID]
		lineTotal := it.Quantity.Mul(it.UnitPrice)
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				info.Code,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				info.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				info.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				it.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(it.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(lineTotal.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(d *entity.Delivery) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	flete := d.ShippingCost.Add(d.ShippingTax)

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("Flete + Imp.:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value("$"+formatMoney(d.Subtotal.StringFixed(0))),
			value("$"+formatMoney(flete.StringFixed(0))),
			grandValue("$"+formatMoney(d.Total.StringFixed(0))),
		),
		col.New(3),
	)
}

// footerRows: observaciones + espacios de firma.
func footerRows(d *entity.Delivery) []core.Row {
	var rows []core.Row

	if d.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Observaciones:", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
			text.New(d.Notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}

	rows = append(rows, row.New(8))
	rows = append(rows, row.New(12).Add(
		col.New(5).Add(
			text.New("_______________________________", props.Text{Size: 9, Align: align.Center, Top: 1}),
			text.New("Entregado por", props.Text{Size: 8, Align: align.Center, Top: 7, Color: colorGray}),
		),
		col.New(2),
		col.New(5).Add(
			text.New("_______________________________", props.Text{Size: 9, Align: align.Center, Top: 1}),
			text.New("Recibido por", props.Text{Size: 8, Align: align.Center, Top: 7, Color: colorGray}),
		),
	))

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Este documento soporta la entrega de mercancía y no constituye factura de venta.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case entity.DeliveryPending:
		return "PENDIENTE"
	case entity.DeliveryDelivered:
		return "ENTREGADA"
	case entity.DeliveryCancelled:
		return "ANULADA"
	}
	return status
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
