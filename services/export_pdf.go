package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF renders a quotation version as a PDF using maroto/v2: header,
// one table section per space bucket with its subtotal, then the grand
// totals. It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, data)

	for _, group := range data.Groups {
		addSpaceHeader(m, group)
		addItemTableHeader(m)
		for _, r := range group.Rows {
			addItemRow(m, r)
		}
		addGroupSubtotal(m, group)
	}

	addGrandTotals(m, data)
	addGeneratedFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addPDFHeader adds the project title, client, folio and version line.
func addPDFHeader(m core.Maroto, data ExportData) {
	title := "Cotización"
	if data.ProjectName != "" {
		title = fmt.Sprintf("Cotización — %s", data.ProjectName)
	}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	versionLabel := fmt.Sprintf("Versión %d", data.VersionNumber)
	if data.IsFinal {
		versionLabel += " (final)"
	}

	m.AddRows(
		row.New(8).Add(
			col.New(4).Add(
				text.New(fmt.Sprintf("Folio: %s", data.Folio), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Cliente: %s", data.ClientName), props.Text{
					Size:  9,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("%s · %s", versionLabel, data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addSpaceHeader renders the space-name band above a bucket's table.
func addSpaceHeader(m core.Maroto, group ExportGroup) {
	bandBg := &props.Color{Red: 224, Green: 224, Blue: 224}
	m.AddRows(row.New(3))
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(group.SpaceName, props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			).WithStyle(&props.Cell{BackgroundColor: bandBg}),
		),
	)
}

// addItemTableHeader adds the column header row for an item table.
func addItemTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Concepto", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Cant.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unidad", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Costo unitario", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Subtotal", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Precio con IVA", headerText)).WithStyle(&headerCell),
		),
	)
}

// addItemRow renders one priced line.
func addItemRow(m core.Maroto, r ExportRow) {
	baseText := props.Text{
		Size:  7,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	name := r.ItemName
	if r.Category != "" {
		name = fmt.Sprintf("%s (%s)", r.ItemName, r.Category)
	}

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(r.Index, baseText)),
			col.New(3).Add(text.New(name, leftText)),
			col.New(1).Add(text.New(formatQty(r.Quantity), rightText)),
			col.New(1).Add(text.New(r.UnitSymbol, baseText)),
			col.New(2).Add(text.New(FormatCurrency(r.UnitCost, ""), rightText)),
			col.New(2).Add(text.New(FormatCurrency(r.Subtotal, ""), rightText)),
			col.New(2).Add(text.New(FormatCurrency(r.PriceWithTax, ""), rightText)),
		),
	)
}

// addGroupSubtotal renders the per-space subtotal band.
func addGroupSubtotal(m core.Maroto, group ExportGroup) {
	subtotalBg := &props.Color{Red: 245, Green: 245, Blue: 245}
	subtotalCell := &props.Cell{BackgroundColor: subtotalBg}
	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Subtotal %s", group.SpaceName), labelStyle),
			).WithStyle(subtotalCell),
			col.New(2).Add(
				text.New(FormatCurrency(group.Subtotal, ""), labelStyle),
			).WithStyle(subtotalCell),
			col.New(2).Add(
				text.New(FormatCurrency(group.TotalWithTax, ""), labelStyle),
			).WithStyle(subtotalCell),
			col.New(2).Add(
				text.New("", labelStyle),
			).WithStyle(subtotalCell),
		),
	)
}

// addGrandTotals adds the totals section at the bottom of the PDF.
func addGrandTotals(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	addTotalRow := func(label string, amount float64) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New(label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(FormatCurrency(amount, data.Currency), labelStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	addTotalRow("Costo total", data.TotalCost)
	addTotalRow("Total con IVA", data.TotalWithTax)
	addTotalRow("Utilidad estimada", data.TotalProfit)
}

// addGeneratedFooter adds the generated-date line at the bottom.
func addGeneratedFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generado el %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
