package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleQuoteView returns a quote together with its current version's items,
// grouped by space with per-group and grand totals.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		out := quoteJSON(app, quote)

		currentID := quote.GetString("current_version")
		if currentID != "" {
			version := findQuoteVersion(app, quote.Id, currentID)
			if version != nil {
				items, err := services.FindVersionItems(app, version.Id)
				if err != nil {
					return mapServiceError(e, "quote_view", err)
				}
				out["version"] = versionJSON(version)
				out["grouped_items"] = groupedJSON(app, services.GroupBySpace(app, items))
			}
		}

		return e.JSON(http.StatusOK, out)
	}
}
