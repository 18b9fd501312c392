package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

type itemCreateRequest struct {
	SpaceID      string   `json:"space"`
	ItemName     string   `json:"item_name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Quantity     float64  `json:"quantity"`
	UnitID       string   `json:"unit"`
	UnitCost     float64  `json:"unit_cost"`
	LaborCost    float64  `json:"labor_cost"`
	TaxRate      *float64 `json:"tax_rate"`
	MarginRate   *float64 `json:"margin_rate"`
	Notes        string   `json:"notes"`
	DisplayOrder float64  `json:"display_order"`
}

func (r itemCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemName, validation.Required),
		validation.Field(&r.Quantity, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.UnitCost, validation.Min(0.0)),
		validation.Field(&r.LaborCost, validation.Min(0.0)),
	)
}

// HandleItemCreate adds a manual item to the quote's current version. The
// item is priced server side from its cost inputs and the quote's rates.
func HandleItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quote := findQuote(app, e.Request.PathValue("id"))
		if quote == nil {
			return jsonError(e, http.StatusNotFound, "quote not found")
		}

		version := findQuoteVersion(app, quote.Id, e.Request.PathValue("versionId"))
		if version == nil {
			return jsonError(e, http.StatusNotFound, "version not found")
		}

		var req itemCreateRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "invalid request body")
		}
		if err := req.Validate(); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		item, err := services.AddItem(app, version.Id, services.ItemInput{
			SpaceID:      req.SpaceID,
			ItemName:     strings.TrimSpace(req.ItemName),
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
			return mapServiceError(e, "item_create", err)
		}

		return e.JSON(http.StatusCreated, itemJSON(app, item))
	}
}
