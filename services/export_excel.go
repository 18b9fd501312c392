package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel renders a quotation version as an Excel workbook: one sheet,
// a band per space bucket, totals at the bottom. Returns the file bytes.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names cap at 31 chars.
	sheetName := data.ProjectName
	if runes := []rune(sheetName); len(runes) > 31 {
		sheetName = string(runes[:31])
	}
	if sheetName == "" {
		sheetName = "Cotización"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 42, 10, 10, 16, 16, 16}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	spaceStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create space style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 4, // #,##0.00
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#F0F0F0"}, Pattern: 1},
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// ── Header ──────────────────────────────────────────────────────────

	rowNum := 1
	title := "Cotización"
	if data.ProjectName != "" {
		title = fmt.Sprintf("Cotización — %s", data.ProjectName)
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), title)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), titleStyle)

	rowNum++
	subtitle := fmt.Sprintf("Folio: %s · Cliente: %s · Versión %d · %s",
		data.Folio, data.ClientName, data.VersionNumber, data.CreatedDate)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), subtitle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), subtitleStyle)

	rowNum += 2

	// ── Space sections ──────────────────────────────────────────────────

	itemHeaders := []string{"#", "Concepto", "Cant.", "Unidad", "Costo unitario", "Subtotal", "Precio con IVA"}

	for _, group := range data.Groups {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), group.SpaceName)
		f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), spaceStyle)
		rowNum++

		for i, h := range itemHeaders {
			cell := fmt.Sprintf("%s%d", columns[i], rowNum)
			f.SetCellValue(sheetName, cell, h)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), headerStyle)
		rowNum++

		for _, r := range group.Rows {
			name := r.ItemName
			if r.Category != "" {
				name = fmt.Sprintf("%s (%s)", r.ItemName, r.Category)
			}
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), r.Index)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), name)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), r.Quantity)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), r.UnitSymbol)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), r.UnitCost)
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), r.Subtotal)
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), r.PriceWithTax)
			f.SetCellStyle(sheetName, fmt.Sprintf("E%d", rowNum), fmt.Sprintf("G%d", rowNum), moneyStyle)
			rowNum++
		}

		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), fmt.Sprintf("Subtotal %s", group.SpaceName))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), group.Subtotal)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), group.TotalWithTax)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), totalStyle)
		rowNum += 2
	}

	// ── Grand totals ────────────────────────────────────────────────────

	writeTotal := func(label string, amount float64) {
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), label)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), amount)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), totalStyle)
		rowNum++
	}

	writeTotal(fmt.Sprintf("Costo total (%s)", data.Currency), data.TotalCost)
	writeTotal(fmt.Sprintf("Total con IVA (%s)", data.Currency), data.TotalWithTax)
	writeTotal(fmt.Sprintf("Utilidad estimada (%s)", data.Currency), data.TotalProfit)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
