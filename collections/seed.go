package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type unitDef struct {
	name   string
	symbol string
}

type materialDef struct {
	name     string
	nameEs   string
	category string
	// cost record seeded alongside the material
	unitSymbol       string
	baseCost         float64
	laborCostPerUnit float64
}

type elementDef struct {
	name             string
	nameEs           string
	category         string
	unitSymbol       string
	baseCost         float64
	laborCostPerUnit float64
}

var seedUnits = []unitDef{
	{"Square meter", "m²"},
	{"Linear meter", "ml"},
	{"Piece", "pza"},
	{"Global", "global"},
	{"Kilogram", "kg"},
	{"Hour", "hr"},
}

var seedMaterials = []materialDef{
	{"Porcelain tile", "Porcelanato", "Piso", "m²", 350.00, 50.00},
	{"Engineered wood", "Madera de ingeniería", "Piso", "m²", 520.00, 80.00},
	{"Venetian plaster", "Estuco veneciano", "Muro", "m²", 180.00, 120.00},
	{"Matte paint", "Pintura mate", "Muro", "m²", 45.00, 35.00},
	{"Quartz slab", "Cuarzo", "Cubierta", "ml", 2100.00, 350.00},
}

var seedElements = []elementDef{
	{"Pendant lamp", "Lámpara colgante", "Iluminación", "pza", 1450.00, 250.00},
	{"Floating shelf", "Repisa flotante", "Mobiliario", "pza", 680.00, 150.00},
	{"Lounge chair", "Sillón", "Mobiliario", "pza", 5200.00, 0},
	{"Recessed lighting", "Iluminación empotrada", "Iluminación", "pza", 320.00, 180.00},
}

// Seed populates the cost library (units, materials, elements and their
// active cost records) when the collections are empty. Safe to call on every
// startup.
func Seed(app *pocketbase.PocketBase) error {
	unitsCol, err := app.FindCollectionByNameOrId("cost_units")
	if err != nil {
		return fmt.Errorf("seed: could not find cost_units collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(unitsCol, "id != ''", "", 1, 0, nil)
	if err == nil && len(existing) > 0 {
		return nil
	}

	unitBySymbol := make(map[string]*core.Record, len(seedUnits))
	for _, u := range seedUnits {
		record := core.NewRecord(unitsCol)
		record.Set("name", u.name)
		record.Set("symbol", u.symbol)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: unit %q: %w", u.symbol, err)
		}
		unitBySymbol[u.symbol] = record
	}

	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	materialCostsCol, err := app.FindCollectionByNameOrId("material_costs")
	if err != nil {
		return fmt.Errorf("seed: could not find material_costs collection: %w", err)
	}

	for _, m := range seedMaterials {
		record := core.NewRecord(materialsCol)
		record.Set("name", m.name)
		record.Set("name_es", m.nameEs)
		record.Set("category", m.category)
		record.Set("active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: material %q: %w", m.name, err)
		}

		cost := core.NewRecord(materialCostsCol)
		cost.Set("material", record.Id)
		if unit, ok := unitBySymbol[m.unitSymbol]; ok {
			cost.Set("unit", unit.Id)
		}
		cost.Set("base_cost", m.baseCost)
		cost.Set("labor_cost_per_unit", m.laborCostPerUnit)
		cost.Set("active", true)
		if err := app.Save(cost); err != nil {
			return fmt.Errorf("seed: material cost %q: %w", m.name, err)
		}
	}

	elementsCol, err := app.FindCollectionByNameOrId("elements")
	if err != nil {
		return fmt.Errorf("seed: could not find elements collection: %w", err)
	}
	elementCostsCol, err := app.FindCollectionByNameOrId("element_costs")
	if err != nil {
		return fmt.Errorf("seed: could not find element_costs collection: %w", err)
	}

	for _, el := range seedElements {
		record := core.NewRecord(elementsCol)
		record.Set("name", el.name)
		record.Set("name_es", el.nameEs)
		record.Set("category", el.category)
		record.Set("active", true)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: element %q: %w", el.name, err)
		}

		cost := core.NewRecord(elementCostsCol)
		cost.Set("element", record.Id)
		if unit, ok := unitBySymbol[el.unitSymbol]; ok {
			cost.Set("unit", unit.Id)
		}
		cost.Set("base_cost", el.baseCost)
		cost.Set("labor_cost_per_unit", el.laborCostPerUnit)
		cost.Set("active", true)
		if err := app.Save(cost); err != nil {
			return fmt.Errorf("seed: element cost %q: %w", el.name, err)
		}
	}

	log.Printf("seed: cost library loaded (%d units, %d materials, %d elements)\n",
		len(seedUnits), len(seedMaterials), len(seedElements))
	return nil
}
