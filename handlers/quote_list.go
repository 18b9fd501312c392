package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleQuoteList returns quotes, newest first, with project display info.
// An optional ?project_id= narrows the list to one project.
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		filter := "id != ''"
		params := map[string]any{}
		if projectID := e.Request.URL.Query().Get("project_id"); projectID != "" {
			filter = "project = {:projectId}"
			params["projectId"] = projectID
		}

		quotes, err := app.FindRecordsByFilter("quotes", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("quote_list: query failed: %v", err)
			quotes = nil
		}

		out := make([]map[string]any, 0, len(quotes))
		for _, quote := range quotes {
			out = append(out, quoteJSON(app, quote))
		}

		return e.JSON(http.StatusOK, map[string]any{"quotes": out})
	}
}
