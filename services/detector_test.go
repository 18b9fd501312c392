package services

import (
	"testing"

	"designquotes/testhelpers"
)

func TestParseEnhancementMetadata(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Detector Project")

	image := testhelpers.CreateTestImage(t, app, project.Id, "", "materials", map[string]any{
		"enhancement_type": "materials",
		"replacements": []any{
			map[string]any{
				"targetElement":    "Piso",
				"fromMaterialId":   "old1",
				"fromMaterialName": "Cemento",
				"toMaterialId":     "new1",
				"toMaterialName":   "Porcelanato",
			},
		},
		"elements": []any{
			map[string]any{
				"elementId":     "el1",
				"elementName":   "Pendant lamp",
				"elementNameEs": "Lámpara colgante",
			},
		},
	})

	meta := ParseEnhancementMetadata(image)
	if meta.EnhancementType != "materials" {
		t.Errorf("EnhancementType = %q, want materials", meta.EnhancementType)
	}
	if len(meta.Replacements) != 1 {
		t.Fatalf("len(Replacements) = %d, want 1", len(meta.Replacements))
	}
	rep := meta.Replacements[0]
	if rep.TargetElement != "Piso" || rep.ToMaterialID != "new1" || rep.FromMaterialName != "Cemento" {
		t.Errorf("unexpected replacement: %+v", rep)
	}
	if len(meta.Elements) != 1 || meta.Elements[0].ElementNameEs != "Lámpara colgante" {
		t.Errorf("unexpected elements: %+v", meta.Elements)
	}
}

func TestParseEnhancementMetadata_Malformed(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Detector Project")

	tests := []struct {
		name     string
		metadata map[string]any
	}{
		{"nil_metadata", nil},
		{"empty_metadata", map[string]any{}},
		{"wrong_types", map[string]any{"replacements": "not-a-list", "elements": 42}},
		{"junk_entries", map[string]any{"replacements": []any{"a string", 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := testhelpers.CreateTestImage(t, app, project.Id, "", "materials", tt.metadata)
			meta := ParseEnhancementMetadata(image)
			if len(meta.Replacements) != 0 || len(meta.Elements) != 0 {
				t.Errorf("expected empty metadata, got %+v", meta)
			}
		})
	}
}

func TestDetectItems_MaterialReplacement(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Detector Project")
	unit := testhelpers.CreateTestUnit(t, app, "Metro cuadrado", "m²")
	material := testhelpers.CreateTestMaterial(t, app, "Porcelain tile", "Porcelanato", unit.Id, 350, 50)

	image := testhelpers.CreateTestImage(t, app, project.Id, "", "materials", map[string]any{
		"replacements": []any{
			map[string]any{
				"targetElement": "Piso",
				"toMaterialId":  material.Id,
			},
		},
	})

	items := DetectItems(app, image)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	item := items[0]
	if item.ItemName != "Piso - Porcelanato" {
		t.Errorf("ItemName = %q, want %q", item.ItemName, "Piso - Porcelanato")
	}
	if item.Quantity != 1 {
		t.Errorf("Quantity = %v, want 1", item.Quantity)
	}
	if item.UnitCost != 350 || item.LaborCost != 50 {
		t.Errorf("costs = %v/%v, want 350/50", item.UnitCost, item.LaborCost)
	}
	if item.ImageID != image.Id {
		t.Errorf("ImageID = %q, want %q", item.ImageID, image.Id)
	}
}

func TestDetectItems_ColorOnlyReplacementSkipped(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Detector Project")

	image := testhelpers.CreateTestImage(t, app, project.Id, "", "materials", map[string]any{
		"replacements": []any{
			map[string]any{
				"targetElement":  "Muro",
				"toMaterialId":   "",
				"toMaterialName": "Azul marino",
			},
		},
	})

	if items := DetectItems(app, image); len(items) != 0 {
		t.Errorf("expected color-only replacement to produce no items, got %d", len(items))
	}
}

func TestDetectItems_MissingCostSkipped(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Detector Project")
	unit := testhelpers.CreateTestUnit(t, app, "Metro cuadrado", "m²")
	priced := testhelpers.CreateTestMaterial(t, app, "Engineered wood", "Madera de ingeniería", unit.Id, 420, 80)

	// A material that exists but has no active cost record.
	unpriced := testhelpers.CreateTestMaterial(t, app, "Rare marble", "Mármol raro", unit.Id, 100, 0)
	costs, err := app.FindRecordsByFilter("material_costs", "material = {:id}", "", 0, 0, map[string]any{"id": unpriced.Id})
	if err != nil {
		t.Fatalf("lookup costs: %v", err)
	}
	for _, c := range costs {
		c.Set("active", false)
		if err := app.Save(c); err != nil {
			t.Fatalf("deactivate cost: %v", err)
		}
	}

	image := testhelpers.CreateTestImage(t, app, project.Id, "", "materials", map[string]any{
		"replacements": []any{
			map[string]any{"targetElement": "Piso", "toMaterialId": priced.Id},
			map[string]any{"targetElement": "Muro", "toMaterialId": unpriced.Id},
			map[string]any{"targetElement": "Techo", "toMaterialId": "does-not-exist"},
		},
	})

	items := DetectItems(app, image)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1 (unpriced entries skipped)", len(items))
	}
	if items[0].ItemName != "Piso - Madera de ingeniería" {
		t.Errorf("ItemName = %q", items[0].ItemName)
	}
}

func TestDetectItems_ElementAddition(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Detector Project")
	unit := testhelpers.CreateTestUnit(t, app, "Pieza", "pza")
	element := testhelpers.CreateTestElement(t, app, "Floating shelf", "Repisa flotante", unit.Id, 600, 100)

	image := testhelpers.CreateTestImage(t, app, project.Id, "", "furniture", map[string]any{
		"elements": []any{
			map[string]any{
				"elementId":     element.Id,
				"elementName":   "Floating shelf",
				"elementNameEs": "Repisa flotante",
			},
		},
	})

	items := DetectItems(app, image)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	item := items[0]
	if item.ItemName != "Repisa flotante" {
		t.Errorf("ItemName = %q, want the localized element name", item.ItemName)
	}
	if item.Category != "Otro" {
		t.Errorf("Category = %q, want fallback Otro", item.Category)
	}
	if item.UnitCost != 600 || item.LaborCost != 100 {
		t.Errorf("costs = %v/%v, want 600/100", item.UnitCost, item.LaborCost)
	}
}
