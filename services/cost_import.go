package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// CostImportError is a single field-level error on one CSV row.
type CostImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CostImportResult summarizes one bulk cost-library import.
type CostImportResult struct {
	TotalRows    int               `json:"total_rows"`
	Imported     int               `json:"imported"`
	ErrorRows    int               `json:"error_rows"`
	Errors       []CostImportError `json:"errors"`
	NewMaterials int               `json:"new_materials"`
}

// costImportColumns are the expected CSV header labels, in order.
var costImportColumns = []string{
	"material_name", "name_es", "category", "unit_symbol", "base_cost", "labor_cost_per_unit",
}

// ImportMaterialCosts reads a CSV of material cost records and loads them
// into the library. Unknown materials are created; existing active cost
// records of an updated material are deactivated (soft delete, never hard
// delete) before the new record is inserted, so "latest wins" resolution
// picks up the import. Row errors are collected, valid rows still import.
func ImportMaterialCosts(app core.App, r io.Reader) (CostImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return CostImportResult{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return CostImportResult{}, fmt.Errorf("file must contain a header row and at least one data row")
	}

	if err := checkCostImportHeader(allRows[0]); err != nil {
		return CostImportResult{}, err
	}

	unitsBySymbol, err := unitIndex(app)
	if err != nil {
		return CostImportResult{}, err
	}

	result := CostImportResult{TotalRows: len(allRows) - 1}

	for i, row := range allRows[1:] {
		rowNum := i + 2 // 1-based, after the header

		if len(row) < len(costImportColumns) {
			result.Errors = append(result.Errors, CostImportError{
				Row: rowNum, Field: "", Message: "too few columns",
			})
			result.ErrorRows++
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			result.Errors = append(result.Errors, CostImportError{
				Row: rowNum, Field: "material_name", Message: "material name is required",
			})
			result.ErrorRows++
			continue
		}

		baseCost, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil || baseCost < 0 {
			result.Errors = append(result.Errors, CostImportError{
				Row: rowNum, Field: "base_cost", Message: "base cost must be a non-negative number",
			})
			result.ErrorRows++
			continue
		}

		laborCost := 0.0
		if v := strings.TrimSpace(row[5]); v != "" {
			laborCost, err = strconv.ParseFloat(v, 64)
			if err != nil || laborCost < 0 {
				result.Errors = append(result.Errors, CostImportError{
					Row: rowNum, Field: "labor_cost_per_unit", Message: "labor cost must be a non-negative number",
				})
				result.ErrorRows++
				continue
			}
		}

		unitID := ""
		if symbol := strings.TrimSpace(row[3]); symbol != "" {
			unit, ok := unitsBySymbol[symbol]
			if !ok {
				result.Errors = append(result.Errors, CostImportError{
					Row: rowNum, Field: "unit_symbol", Message: fmt.Sprintf("unknown unit %q", symbol),
				})
				result.ErrorRows++
				continue
			}
			unitID = unit
		}

		created, err := upsertMaterialCost(app, materialCostRow{
			name:      name,
			nameEs:    strings.TrimSpace(row[1]),
			category:  strings.TrimSpace(row[2]),
			unitID:    unitID,
			baseCost:  baseCost,
			laborCost: laborCost,
		})
		if err != nil {
			result.Errors = append(result.Errors, CostImportError{
				Row: rowNum, Field: "", Message: err.Error(),
			})
			result.ErrorRows++
			continue
		}
		if created {
			result.NewMaterials++
		}
		result.Imported++
	}

	return result, nil
}

func checkCostImportHeader(header []string) error {
	if len(header) < len(costImportColumns) {
		return fmt.Errorf("expected columns: %s", strings.Join(costImportColumns, ", "))
	}
	for i, want := range costImportColumns {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return fmt.Errorf("column %d: expected %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func unitIndex(app core.App) (map[string]string, error) {
	units, err := app.FindRecordsByFilter("cost_units", "id != ''", "", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("cost import: load units: %w", err)
	}
	index := make(map[string]string, len(units))
	for _, u := range units {
		index[u.GetString("symbol")] = u.Id
	}
	return index, nil
}

type materialCostRow struct {
	name      string
	nameEs    string
	category  string
	unitID    string
	baseCost  float64
	laborCost float64
}

func upsertMaterialCost(app core.App, row materialCostRow) (createdMaterial bool, err error) {
	err = app.RunInTransaction(func(txApp core.App) error {
		materials, err := txApp.FindRecordsByFilter(
			"materials",
			"name = {:name}",
			"-created",
			1,
			0,
			map[string]any{"name": row.name},
		)
		if err != nil {
			return fmt.Errorf("lookup material %q: %w", row.name, err)
		}

		var material *core.Record
		if len(materials) > 0 {
			material = materials[0]
		} else {
			col, err := txApp.FindCollectionByNameOrId("materials")
			if err != nil {
				return err
			}
			material = core.NewRecord(col)
			material.Set("name", row.name)
			material.Set("name_es", row.nameEs)
			material.Set("category", row.category)
			material.Set("active", true)
			if err := txApp.Save(material); err != nil {
				return fmt.Errorf("create material %q: %w", row.name, err)
			}
			createdMaterial = true
		}

		// Retire the previous active cost records for this material.
		active, err := txApp.FindRecordsByFilter(
			"material_costs",
			"material = {:materialId} && active = true",
			"",
			0,
			0,
			map[string]any{"materialId": material.Id},
		)
		if err != nil {
			return fmt.Errorf("lookup active costs for %q: %w", row.name, err)
		}
		for _, prev := range active {
			prev.Set("active", false)
			if err := txApp.Save(prev); err != nil {
				return fmt.Errorf("deactivate cost %s: %w", prev.Id, err)
			}
		}

		col, err := txApp.FindCollectionByNameOrId("material_costs")
		if err != nil {
			return err
		}
		cost := core.NewRecord(col)
		cost.Set("material", material.Id)
		cost.Set("unit", row.unitID)
		cost.Set("base_cost", row.baseCost)
		cost.Set("labor_cost_per_unit", row.laborCost)
		cost.Set("active", true)
		if err := txApp.Save(cost); err != nil {
			return fmt.Errorf("create cost for %q: %w", row.name, err)
		}
		return nil
	})
	return createdMaterial, err
}
