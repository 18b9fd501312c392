package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleItemDelete removes an item from the quote's current version.
// Items on historical versions cannot be deleted.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		version := findQuoteVersion(app, quote.Id, e.Request.PathValue("versionId"))
		if version == nil {
			return jsonError(e, http.StatusNotFound, "version not found")
		}

		if err := services.DeleteItem(app, version.Id, e.Request.PathValue("itemId")); err != nil {
			return mapServiceError(e, "item_delete", err)
		}

		return e.JSON(http.StatusOK, map[string]any{"deleted": true})
	}
}
