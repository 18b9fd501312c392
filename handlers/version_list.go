package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleVersionList returns the version history of a quote, newest first.
func HandleVersionList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		versions, err := app.FindRecordsByFilter(
			"quote_versions",
			"quote = {:quoteId}",
			"-version_number",
			0,
			0,
			map[string]any{"quoteId": quote.Id},
		)
		if err != nil {
			log.Printf("version_list: query failed for quote %s: %v", quote.Id, err)
			versions = nil
		}

		out := make([]map[string]any, 0, len(versions))
		for _, v := range versions {
			entry := versionJSON(v)
			entry["is_current"] = v.Id == quote.GetString("current_version")
			out = append(out, entry)
		}

		return e.JSON(http.StatusOK, map[string]any{"versions": out})
	}
}
