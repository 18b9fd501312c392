// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("client_name", "Cliente de prueba")
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestSpace creates a space record linked to a project.
func CreateTestSpace(t *testing.T, app *pocketbase.PocketBase, projectID, name string, displayOrder float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("spaces")
	if err != nil {
		t.Fatalf("failed to find spaces collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)
	record.Set("display_order", displayOrder)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test space: %v", err)
	}

	return record
}

// CreateTestUnit creates a cost unit record.
func CreateTestUnit(t *testing.T, app *pocketbase.PocketBase, name, symbol string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("cost_units")
	if err != nil {
		t.Fatalf("failed to find cost_units collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("symbol", symbol)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test unit: %v", err)
	}

	return record
}

// CreateTestMaterial creates a material with one active cost record and
// returns the material. Pass an empty unitID to leave the cost unitless.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, name, nameEs, unitID string, baseCost, laborCost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	material := core.NewRecord(col)
	material.Set("name", name)
	material.Set("name_es", nameEs)
	material.Set("active", true)

	if err := app.Save(material); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	CreateTestMaterialCost(t, app, material.Id, unitID, baseCost, laborCost, true)

	return material
}

// CreateTestMaterialCost adds a cost record to an existing material.
func CreateTestMaterialCost(t *testing.T, app *pocketbase.PocketBase, materialID, unitID string, baseCost, laborCost float64, active bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("material_costs")
	if err != nil {
		t.Fatalf("failed to find material_costs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("material", materialID)
	record.Set("unit", unitID)
	record.Set("base_cost", baseCost)
	record.Set("labor_cost_per_unit", laborCost)
	record.Set("active", active)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material cost: %v", err)
	}

	return record
}

// CreateTestElement creates an element with one active cost record.
func CreateTestElement(t *testing.T, app *pocketbase.PocketBase, name, nameEs, unitID string, baseCost, laborCost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("elements")
	if err != nil {
		t.Fatalf("failed to find elements collection: %v", err)
	}

	element := core.NewRecord(col)
	element.Set("name", name)
	element.Set("name_es", nameEs)
	element.Set("active", true)

	if err := app.Save(element); err != nil {
		t.Fatalf("failed to save test element: %v", err)
	}

	costCol, err := app.FindCollectionByNameOrId("element_costs")
	if err != nil {
		t.Fatalf("failed to find element_costs collection: %v", err)
	}

	cost := core.NewRecord(costCol)
	cost.Set("element", element.Id)
	cost.Set("unit", unitID)
	cost.Set("base_cost", baseCost)
	cost.Set("labor_cost_per_unit", laborCost)
	cost.Set("active", true)

	if err := app.Save(cost); err != nil {
		t.Fatalf("failed to save test element cost: %v", err)
	}

	return element
}

// CreateTestImage creates an enhanced image record carrying the given
// metadata map as its detection payload.
func CreateTestImage(t *testing.T, app *pocketbase.PocketBase, projectID, spaceID, enhancementType string, metadata map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("images")
	if err != nil {
		t.Fatalf("failed to find images collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("space", spaceID)
	record.Set("enhancement_type", enhancementType)
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			t.Fatalf("failed to marshal test metadata: %v", err)
		}
		record.Set("metadata", string(raw))
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test image: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote for a project without any versions.
// Most tests should prefer services.GetOrCreateQuote; this exists for
// exercising repair and versioning paths directly.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, projectID string, taxRate, marginRate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("quote_type", "space")
	record.Set("folio", "COT-2026-001")
	record.Set("tax_rate", taxRate)
	record.Set("margin_rate", marginRate)
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}
