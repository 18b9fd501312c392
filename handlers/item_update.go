package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// itemUpdateRequest carries only the fields present in the body; absent
// fields keep their stored value.
type itemUpdateRequest struct {
	SpaceID      *string  `json:"space"`
	ItemName     *string  `json:"item_name"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Quantity     *float64 `json:"quantity"`
	UnitID       *string  `json:"unit"`
	UnitCost     *float64 `json:"unit_cost"`
	LaborCost    *float64 `json:"labor_cost"`
	TaxRate      *float64 `json:"tax_rate"`
	MarginRate   *float64 `json:"margin_rate"`
	Notes        *string  `json:"notes"`
	DisplayOrder *float64 `json:"display_order"`
}

// HandleItemUpdate patches an item on the quote's current version and
// re-prices it. Updating through a superseded version returns 409.
func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		version := findQuoteVersion(app, quote.Id, e.Request.PathValue("versionId"))
		if version == nil {
			return jsonError(e, http.StatusNotFound, "version not found")
		}

		var req itemUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}

		item, err := services.UpdateItem(app, version.Id, e.Request.PathValue("itemId"), services.ItemPatch{
			SpaceID:      req.SpaceID,
			ItemName:     req.ItemName,
			Category:     req.Category,
			Description:  req.Description,
			Quantity:     req.Quantity,
			UnitID:       req.UnitID,
			UnitCost:     req.UnitCost,
			LaborCost:    req.LaborCost,
			TaxRate:      req.TaxRate,
			MarginRate:   req.MarginRate,
			Notes:        req.Notes,
			DisplayOrder: req.DisplayOrder,
		})
		if err != nil {
			return mapServiceError(e, "item_update", err)
		}

		return e.JSON(http.StatusOK, itemJSON(app, item))
	}
}
