package services

import (
	"testing"
)

func sampleExportData() ExportData {
	return ExportData{
		ProjectName:   "Casa Roma",
		ClientName:    "Familia Mendoza",
		Folio:         "COT-2026-001",
		VersionNumber: 3,
		CreatedDate:   "2026-08-31",
		Currency:      "MXN",
		Groups: []ExportGroup{
			{
				SpaceName: "Cocina",
				Rows: []ExportRow{
					{Index: "1.1", ItemName: "Piso - Porcelanato", Category: "Piso", Quantity: 1, UnitSymbol: "m²", UnitCost: 350, LaborCost: 50, Subtotal: 400, PriceWithTax: 476, Profit: 120},
					{Index: "1.2", ItemName: "Muro - Estuco veneciano", Category: "Muro", Quantity: 1, UnitSymbol: "m²", UnitCost: 180, LaborCost: 90, Subtotal: 270, PriceWithTax: 321.3, Profit: 81},
				},
				Subtotal:     670,
				TotalWithTax: 797.3,
				Profit:       201,
			},
			{
				SpaceName: "Sin espacio",
				Rows: []ExportRow{
					{Index: "2.1", ItemName: "Flete", Quantity: 1, UnitCost: 500, Subtotal: 500, PriceWithTax: 595, Profit: 150},
				},
				Subtotal:     500,
				TotalWithTax: 595,
				Profit:       150,
			},
		},
		TotalCost:    1170,
		TotalWithTax: 1392.3,
		TotalProfit:  351,
	}
}

func TestGeneratePDF(t *testing.T) {
	result, err := GeneratePDF(sampleExportData())
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyVersion(t *testing.T) {
	data := ExportData{
		ProjectName:   "Casa Vacía",
		Folio:         "COT-2026-002",
		VersionNumber: 1,
		CreatedDate:   "2026-08-31",
		Currency:      "MXN",
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes for an empty version")
	}
}
