package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/config"
	"designquotes/services"
)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// exportVersionID resolves the optional ?version_id= query param. Empty
// means the quote's current version.
func exportVersionID(e *core.RequestEvent) string {
	return e.Request.URL.Query().Get("version_id")
}

// HandleExportPDF generates and downloads a PDF of a quote version.
func HandleExportPDF(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		data, err := services.BuildExportData(app, quote.Id, exportVersionID(e), cfg.CurrencyCode)
		if err != nil {
			return mapServiceError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			return mapServiceError(e, "export_pdf", err)
		}

		filename := fmt.Sprintf("%s-v%d.pdf", sanitizeFilename(data.Folio), data.VersionNumber)

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleExportExcel generates and downloads an Excel workbook of a quote version.
func HandleExportExcel(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		data, err := services.BuildExportData(app, quote.Id, exportVersionID(e), cfg.CurrencyCode)
		if err != nil {
			return mapServiceError(e, "export_excel", err)
		}

		excelBytes, err := services.GenerateExcel(data)
		if err != nil {
			return mapServiceError(e, "export_excel", err)
		}

		filename := fmt.Sprintf("%s-v%d.xlsx", sanitizeFilename(data.Folio), data.VersionNumber)

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(excelBytes)
		return nil
	}
}
