package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// CostRecord is the resolved view of an active cost-library entry for a
// material or an element.
type CostRecord struct {
	ID               string
	EntityID         string
	Name             string
	Category         string
	UnitID           string
	BaseCost         float64
	LaborCostPerUnit float64
}

// ResolveMaterialCost looks up the active cost record for a material.
// When duplicates exist the most recently created record wins; "latest wins"
// is the library policy, not "most specific wins".
func ResolveMaterialCost(app core.App, materialID string) (*CostRecord, error) {
	return resolveCost(app, "material_costs", "material", "materials", materialID)
}

// ResolveElementCost looks up the active cost record for an element.
func ResolveElementCost(app core.App, elementID string) (*CostRecord, error) {
	return resolveCost(app, "element_costs", "element", "elements", elementID)
}

func resolveCost(app core.App, costsCollection, relField, entityCollection, entityID string) (*CostRecord, error) {
	if entityID == "" {
		return nil, ErrCostNotFound
	}

	costs, err := app.FindRecordsByFilter(
		costsCollection,
		relField+" = {:entityId} && active = true",
		"-created",
		1,
		0,
		map[string]any{"entityId": entityID},
	)
	if err != nil {
		return nil, fmt.Errorf("cost library: query %s for %s: %w", costsCollection, entityID, err)
	}
	if len(costs) == 0 {
		return nil, ErrCostNotFound
	}

	cost := costs[0]
	record := &CostRecord{
		ID:               cost.Id,
		EntityID:         entityID,
		UnitID:           cost.GetString("unit"),
		BaseCost:         cost.GetFloat("base_cost"),
		LaborCostPerUnit: cost.GetFloat("labor_cost_per_unit"),
	}

	entity, err := app.FindRecordById(entityCollection, entityID)
	if err != nil {
		return nil, fmt.Errorf("cost library: load %s %s: %w", entityCollection, entityID, err)
	}

	// Spanish display name preferred, matching the rest of the quote surface.
	record.Name = entity.GetString("name_es")
	if record.Name == "" {
		record.Name = entity.GetString("name")
	}
	record.Category = entity.GetString("category")

	return record, nil
}

// UnitSymbol resolves a cost unit id to its display symbol. Unknown or empty
// ids yield an empty symbol rather than an error.
func UnitSymbol(app core.App, unitID string) string {
	if unitID == "" {
		return ""
	}
	unit, err := app.FindRecordById("cost_units", unitID)
	if err != nil {
		return ""
	}
	return unit.GetString("symbol")
}
