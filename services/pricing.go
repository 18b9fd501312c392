// Package services holds the quotation engine: pricing, cost-library
// resolution, item detection, version lifecycle, space grouping and the
// export projections built on top of them.
package services

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
)

// ItemInputs are the authoritative priced inputs of a quote item. Everything
// else money-related is derived from these five numbers.
type ItemInputs struct {
	Quantity   float64
	UnitCost   float64
	LaborCost  float64
	TaxRate    float64
	MarginRate float64
}

// ItemPricing holds the derived money fields. The three values are always
// computed together so they can never be mutually stale.
type ItemPricing struct {
	Subtotal     float64
	PriceWithTax float64
	Profit       float64
}

// PriceItem computes the derived money fields for one item:
//
//	subtotal       = quantity*unit_cost + labor_cost
//	price_with_tax = subtotal * (1 + tax_rate)
//	profit         = subtotal * margin_rate
//
// Values are kept unrounded; rounding happens only at presentation.
func PriceItem(in ItemInputs) ItemPricing {
	subtotal := in.Quantity*in.UnitCost + in.LaborCost
	return ItemPricing{
		Subtotal:     subtotal,
		PriceWithTax: subtotal * (1 + in.TaxRate),
		Profit:       subtotal * in.MarginRate,
	}
}

// ValidateItemInputs rejects inputs the formulas are not defined for.
func ValidateItemInputs(in ItemInputs) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Quantity, validation.Min(0.0)),
		validation.Field(&in.UnitCost, validation.Min(0.0)),
		validation.Field(&in.LaborCost, validation.Min(0.0)),
		validation.Field(&in.TaxRate, validation.Min(0.0)),
		validation.Field(&in.MarginRate, validation.Min(0.0)),
	)
}

// ApplyPricing recomputes and sets subtotal, price_with_tax and profit on a
// quote item record. Every write path that touches a priced input must flow
// through here before saving.
func ApplyPricing(item *core.Record) {
	p := PriceItem(ItemInputs{
		Quantity:   item.GetFloat("quantity"),
		UnitCost:   item.GetFloat("unit_cost"),
		LaborCost:  item.GetFloat("labor_cost"),
		TaxRate:    item.GetFloat("tax_rate"),
		MarginRate: item.GetFloat("margin_rate"),
	})
	item.Set("subtotal", p.Subtotal)
	item.Set("price_with_tax", p.PriceWithTax)
	item.Set("profit", p.Profit)
}

// VersionTotals aggregates the already-priced items of a version.
type VersionTotals struct {
	TotalCost    float64 `json:"total_cost"`
	TotalWithTax float64 `json:"total_with_tax"`
	TotalProfit  float64 `json:"total_profit"`
}

// CalcVersionTotals sums the stored per-item derived fields. It never
// re-prices; pricing is owned by PriceItem.
func CalcVersionTotals(items []*core.Record) VersionTotals {
	var totals VersionTotals
	for _, item := range items {
		totals.TotalCost += item.GetFloat("subtotal")
		totals.TotalWithTax += item.GetFloat("price_with_tax")
		totals.TotalProfit += item.GetFloat("profit")
	}
	return totals
}
