package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleVersionCreate snapshots the quote's current version into a new one.
// All current items are forward-copied; the new version becomes current.
func HandleVersionCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		body := struct {
			ChangesDescription string `json:"changes_description"`
			CreatedBy          string `json:"created_by"`
			IsFinal            bool   `json:"is_final"`
		}{}
		_ = e.BindBody(&body)

		version, err := services.CreateVersion(app, quote.Id, services.VersionOptions{
			Description: strings.TrimSpace(body.ChangesDescription),
			CreatedBy:   strings.TrimSpace(body.CreatedBy),
			IsFinal:     body.IsFinal,
		})
		if err != nil {
			return mapServiceError(e, "version_create", err)
		}

		return e.JSON(http.StatusCreated, versionJSON(version))
	}
}
