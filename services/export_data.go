package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ExportRow is one rendered line of an export document.
type ExportRow struct {
	Index        string
	ItemName     string
	Category     string
	Quantity     float64
	UnitSymbol   string
	UnitCost     float64
	LaborCost    float64
	Subtotal     float64
	PriceWithTax float64
	Profit       float64
}

// ExportGroup is one space bucket of an export document.
type ExportGroup struct {
	SpaceName    string
	Rows         []ExportRow
	Subtotal     float64
	TotalWithTax float64
	Profit       float64
}

// ExportData is everything the PDF/Excel projections need, fully resolved:
// the renderers do no lookups and no arithmetic of their own.
type ExportData struct {
	ProjectName   string
	ClientName    string
	Folio         string
	VersionNumber int
	IsFinal       bool
	CreatedDate   string
	Currency      string
	Groups        []ExportGroup
	TotalCost     float64
	TotalWithTax  float64
	TotalProfit   float64
}

// BuildExportData assembles the grouped, totaled projection of one quote
// version. It aggregates stored derived fields only; pricing stays owned by
// the pricing step.
func BuildExportData(app core.App, quoteID, versionID, currency string) (ExportData, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return ExportData{}, ErrNotFound
	}

	if versionID == "" {
		versionID = quote.GetString("current_version")
	}
	if versionID == "" {
		return ExportData{}, ErrNotFound
	}

	version, err := app.FindRecordById("quote_versions", versionID)
	if err != nil || version.GetString("quote") != quoteID {
		return ExportData{}, ErrNotFound
	}

	data := ExportData{
		Folio:         quote.GetString("folio"),
		VersionNumber: version.GetInt("version_number"),
		IsFinal:       version.GetBool("is_final"),
		CreatedDate:   version.GetDateTime("created").Time().Format("2006-01-02"),
		Currency:      currency,
	}

	if project, err := app.FindRecordById("projects", quote.GetString("project")); err == nil {
		data.ProjectName = project.GetString("name")
		data.ClientName = project.GetString("client_name")
	}

	items, err := FindVersionItems(app, versionID)
	if err != nil {
		return ExportData{}, err
	}

	grouped := GroupBySpace(app, items)
	data.TotalCost = grouped.Totals.TotalCost
	data.TotalWithTax = grouped.Totals.TotalWithTax
	data.TotalProfit = grouped.Totals.TotalProfit

	groupIndex := 0
	appendGroup := func(g SpaceGroup) {
		if len(g.Items) == 0 {
			return
		}
		groupIndex++
		out := ExportGroup{
			SpaceName:    g.SpaceName,
			Subtotal:     g.Subtotal,
			TotalWithTax: g.TotalWithTax,
			Profit:       g.Profit,
		}
		for i, item := range g.Items {
			out.Rows = append(out.Rows, ExportRow{
				Index:        fmt.Sprintf("%d.%d", groupIndex, i+1),
				ItemName:     item.GetString("item_name"),
				Category:     item.GetString("category"),
				Quantity:     item.GetFloat("quantity"),
				UnitSymbol:   UnitSymbol(app, item.GetString("unit")),
				UnitCost:     item.GetFloat("unit_cost"),
				LaborCost:    item.GetFloat("labor_cost"),
				Subtotal:     item.GetFloat("subtotal"),
				PriceWithTax: item.GetFloat("price_with_tax"),
				Profit:       item.GetFloat("profit"),
			})
		}
		data.Groups = append(data.Groups, out)
	}

	for _, g := range grouped.Groups {
		appendGroup(g)
	}
	appendGroup(grouped.Ungrouped)

	return data, nil
}
