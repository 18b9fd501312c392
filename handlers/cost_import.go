package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// HandleCostImport bulk-loads material cost records from an uploaded CSV.
// Valid rows import even when other rows fail; the response lists row errors.
func HandleCostImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, _, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "missing file upload")
		}
		defer file.Close()

		result, err := services.ImportMaterialCosts(app, file)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, result)
	}
}
