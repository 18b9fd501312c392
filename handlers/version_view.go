package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleVersionView returns one version of a quote with its items grouped
// by space. Historical versions are readable but frozen.
func HandleVersionView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			return mapServiceError(e, "version_view", err)
		}

		out := versionJSON(version)
		out["is_current"] = version.Id == quote.GetString("current_version")
		out["grouped_items"] = groupedJSON(app, services.GroupBySpace(app, items))

		return e.JSON(http.StatusOK, out)
	}
}
