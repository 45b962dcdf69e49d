// Package pdf genera el reporte de niveles de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Componente | Cantidad | Actualizado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de componentes y unidades                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	appstock "github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa stock.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador; author va en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStockReport(
	_ context.Context,
	generatedAt time.Time,
	lines []appstock.LevelReportLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Niveles de stock", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(lines))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("NIVELES DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Componentes de servidores", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tipo", 3, align.Left),
		h("Componente", 5, align.Left),
		h("Cantidad", 2, align.Right),
		h("Actualizado", 2, align.Right),
	)
}

// tableDetailRows una fila por nivel; los niveles en cero se resaltan.
func tableDetailRows(lines []appstock.LevelReportLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		qtyProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if l.Quantity == 0 {
			qtyProps.Color = colorAlert
			qtyProps.Style = fontstyle.Bold
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(string(l.ComponentType), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(l.ComponentName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatQty(l.Quantity), qtyProps)),
			col.New(2).Add(text.New(l.UpdatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray,
			})),
		))
	}
	return result
}

func totalsRow(lines []appstock.LevelReportLine) core.Row {
	units := 0
	for _, l := range lines {
		units += l.Quantity
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(label("Componentes:"), label("Unidades:")),
		col.New(3).Add(value(formatQty(len(lines))), value(formatQty(units))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQty inserta puntos de miles. Ej: 25000 → "25.000"
func formatQty(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatQty(-n)
	}
	if len(s) <= 3 {
		return s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
