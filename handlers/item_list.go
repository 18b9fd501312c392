package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleItemList returns a version's items in display order, with resolved
// space names and unit symbols.
func HandleItemList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		version := findQuoteVersion(app, quote.Id, e.Request.PathValue("versionId"))
		if version == nil {
			return jsonError(e, http.StatusNotFound, "version not found")
		}

		items, err := services.FindVersionItems(app, version.Id)
		if err != nil {
			return mapServiceError(e, "item_list", err)
		}

		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			out = append(out, itemJSON(app, item))
		}

		return e.JSON(http.StatusOK, map[string]any{
			"items":  out,
			"totals": services.CalcVersionTotals(items),
		})
	}
}
