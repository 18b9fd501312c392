package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleVersionFinalize marks a version as final. Finalizing is one-way and
// idempotent; repeat calls succeed without changing anything.
func HandleVersionFinalize(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		if findQuoteVersion(app, quote.Id, e.Request.PathValue("versionId")) == nil {
			return jsonError(e, http.StatusNotFound, "version not found")
		}

		version, err := services.MarkFinal(app, e.Request.PathValue("versionId"))
		if err != nil {
			return mapServiceError(e, "version_finalize", err)
		}

		return e.JSON(http.StatusOK, versionJSON(version))
	}
}
