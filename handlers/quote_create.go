package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/config"
	"designquotes/services"
)

// HandleQuoteCreate returns (or creates) the single quote of a project.
// Repeat calls for the same project return the same quote.
func HandleQuoteCreate(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return jsonError(e, http.StatusNotFound, "project not found")
		}

		body := struct {
			QuoteType string `json:"quote_type"`
		}{}
		// Body is optional; an empty one means the default quote type.
		_ = e.BindBody(&body)

		quote, err := services.GetOrCreateQuote(app, projectID, body.QuoteType, services.RateDefaults{
			TaxRate:    cfg.DefaultTaxRate,
			MarginRate: cfg.DefaultMarginRate,
		})
		if err != nil {
			return mapServiceError(e, "quote_create", err)
		}

		return e.JSON(http.StatusOK, quoteJSON(app, quote))
	}
}
