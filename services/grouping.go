package services

import (
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// SpaceGroup is one presentation bucket of a version's items.
type SpaceGroup struct {
	SpaceID      string
	SpaceName    string
	DisplayOrder float64
	Items        []*core.Record
	Subtotal     float64
	TotalWithTax float64
	Profit       float64
}

// GroupedItems is a version's item set partitioned by space, with the
// ungrouped bucket always rendered last and grand totals folded in.
type GroupedItems struct {
	Groups    []SpaceGroup
	Ungrouped SpaceGroup
	Totals    VersionTotals
}

// GroupBySpace partitions items into per-space buckets. Ordering within a
// bucket follows (item display_order, item_name); buckets follow the space's
// display_order then name. Totals are pure sums of the stored per-item
// derived fields -- grouping never re-prices.
func GroupBySpace(app core.App, items []*core.Record) GroupedItems {
	result := GroupedItems{
		Ungrouped: SpaceGroup{SpaceName: "Sin espacio"},
	}

	buckets := make(map[string]*SpaceGroup)
	var order []string

	for _, item := range items {
		spaceID := item.GetString("space")
		if spaceID == "" {
			result.Ungrouped.Items = append(result.Ungrouped.Items, item)
			continue
		}

		group, ok := buckets[spaceID]
		if !ok {
			group = &SpaceGroup{SpaceID: spaceID, SpaceName: "Sin espacio"}
			if space, err := app.FindRecordById("spaces", spaceID); err == nil {
				group.SpaceName = space.GetString("name")
				group.DisplayOrder = space.GetFloat("display_order")
			}
			buckets[spaceID] = group
			order = append(order, spaceID)
		}
		group.Items = append(group.Items, item)
	}

	for _, spaceID := range order {
		result.Groups = append(result.Groups, *buckets[spaceID])
	}

	sort.SliceStable(result.Groups, func(i, j int) bool {
		a, b := result.Groups[i], result.Groups[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.SpaceName < b.SpaceName
	})

	for i := range result.Groups {
		sortGroupItems(&result.Groups[i])
		foldGroupTotals(&result.Groups[i])
		result.Totals.TotalCost += result.Groups[i].Subtotal
		result.Totals.TotalWithTax += result.Groups[i].TotalWithTax
		result.Totals.TotalProfit += result.Groups[i].Profit
	}

	sortGroupItems(&result.Ungrouped)
	foldGroupTotals(&result.Ungrouped)
	result.Totals.TotalCost += result.Ungrouped.Subtotal
	result.Totals.TotalWithTax += result.Ungrouped.TotalWithTax
	result.Totals.TotalProfit += result.Ungrouped.Profit

	return result
}

func sortGroupItems(group *SpaceGroup) {
	sort.SliceStable(group.Items, func(i, j int) bool {
		a, b := group.Items[i], group.Items[j]
		if a.GetFloat("display_order") != b.GetFloat("display_order") {
			return a.GetFloat("display_order") < b.GetFloat("display_order")
		}
		return a.GetString("item_name") < b.GetString("item_name")
	})
}

func foldGroupTotals(group *SpaceGroup) {
	for _, item := range group.Items {
		group.Subtotal += item.GetFloat("subtotal")
		group.TotalWithTax += item.GetFloat("price_with_tax")
		group.Profit += item.GetFloat("profit")
	}
}
