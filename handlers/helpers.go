package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"designquotes/services"
)

// jsonError writes a uniform error body.
func jsonError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]any{"error": message})
}

// mapServiceError translates the services error taxonomy to HTTP statuses.
func mapServiceError(e *core.RequestEvent, prefix string, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return jsonError(e, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrConflict):
		return jsonError(e, http.StatusConflict, "version superseded, reload and retry")
	case errors.Is(err, services.ErrCostNotFound):
		return jsonError(e, http.StatusNotFound, "no cost record for that entity")
	case services.IsValidationError(err):
		return jsonError(e, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s: %v", prefix, err)
		return jsonError(e, http.StatusInternalServerError, "internal error")
	}
}

// findQuote fetches a quote by id, returning nil when it does not exist.
func findQuote(app *pocketbase.PocketBase, id string) *core.Record {
	quote, err := app.FindRecordById("quotes", id)
	if err != nil {
		return nil
	}
	return quote
}

// findQuoteVersion fetches a version and checks it belongs to the quote.
func findQuoteVersion(app *pocketbase.PocketBase, quoteID, versionID string) *core.Record {
	version, err := app.FindRecordById("quote_versions", versionID)
	if err != nil {
		return nil
	}
	if version.GetString("quote") != quoteID {
		return nil
	}
	return version
}

// quoteJSON is the wire shape of a quote.
func quoteJSON(app *pocketbase.PocketBase, quote *core.Record) map[string]any {
	projectName := ""
	clientName := ""
	if project, err := app.FindRecordById("projects", quote.GetString("project")); err == nil {
		projectName = project.GetString("name")
		clientName = project.GetString("client_name")
	}
	return map[string]any{
		"id":              quote.Id,
		"project":         quote.GetString("project"),
		"project_name":    projectName,
		"client_name":     clientName,
		"quote_type":      quote.GetString("quote_type"),
		"folio":           quote.GetString("folio"),
		"tax_rate":        quote.GetFloat("tax_rate"),
		"margin_rate":     quote.GetFloat("margin_rate"),
		"status":          quote.GetString("status"),
		"current_version": quote.GetString("current_version"),
		"created":         quote.GetString("created"),
		"updated":         quote.GetString("updated"),
	}
}

func versionJSON(version *core.Record) map[string]any {
	return map[string]any{
		"id":                  version.Id,
		"quote":               version.GetString("quote"),
		"version_number":      version.GetInt("version_number"),
		"changes_description": version.GetString("changes_description"),
		"is_final":            version.GetBool("is_final"),
		"created_by":          version.GetString("created_by"),
		"created":             version.GetString("created"),
	}
}

// itemJSON serializes a quote item, resolving space and unit display fields.
func itemJSON(app *pocketbase.PocketBase, item *core.Record) map[string]any {
	spaceName := ""
	if spaceID := item.GetString("space"); spaceID != "" {
		if space, err := app.FindRecordById("spaces", spaceID); err == nil {
			spaceName = space.GetString("name")
		}
	}
	return map[string]any{
		"id":             item.Id,
		"version":        item.GetString("version"),
		"space":          item.GetString("space"),
		"space_name":     spaceName,
		"item_name":      item.GetString("item_name"),
		"category":       item.GetString("category"),
		"description":    item.GetString("description"),
		"quantity":       item.GetFloat("quantity"),
		"unit":           item.GetString("unit"),
		"unit_symbol":    services.UnitSymbol(app, item.GetString("unit")),
		"unit_cost":      item.GetFloat("unit_cost"),
		"labor_cost":     item.GetFloat("labor_cost"),
		"tax_rate":       item.GetFloat("tax_rate"),
		"margin_rate":    item.GetFloat("margin_rate"),
		"subtotal":       item.GetFloat("subtotal"),
		"price_with_tax": item.GetFloat("price_with_tax"),
		"profit":         item.GetFloat("profit"),
		"image":          item.GetString("image"),
		"notes":          item.GetString("notes"),
		"display_order":  item.GetFloat("display_order"),
	}
}

// groupedJSON serializes a GroupBySpace result, ungrouped bucket last.
func groupedJSON(app *pocketbase.PocketBase, grouped services.GroupedItems) map[string]any {
	groups := make([]map[string]any, 0, len(grouped.Groups)+1)
	for _, g := range grouped.Groups {
		groups = append(groups, groupJSON(app, g))
	}
	if len(grouped.Ungrouped.Items) > 0 {
		groups = append(groups, groupJSON(app, grouped.Ungrouped))
	}
	return map[string]any{
		"groups": groups,
		"totals": grouped.Totals,
	}
}

func groupJSON(app *pocketbase.PocketBase, group services.SpaceGroup) map[string]any {
	items := make([]map[string]any, 0, len(group.Items))
	for _, item := range group.Items {
		items = append(items, itemJSON(app, item))
	}
	return map[string]any{
		"space":          group.SpaceID,
		"space_name":     group.SpaceName,
		"items":          items,
		"subtotal":       group.Subtotal,
		"total_with_tax": group.TotalWithTax,
		"profit":         group.Profit,
	}
}
