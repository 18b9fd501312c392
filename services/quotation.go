package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// RateDefaults carries the configured default tax and margin rates applied
// to quotes created lazily.
type RateDefaults struct {
	TaxRate    float64
	MarginRate float64
}

// GetOrCreateQuote returns the existing quote for a project or creates one
// (with its empty initial version) using the default rates. Concurrent calls
// are made idempotent by the unique index on quotes.project: the loser of a
// create race refetches the winner's quote.
func GetOrCreateQuote(app core.App, projectID, quoteType string, defaults RateDefaults) (*core.Record, error) {
	if quoteType == "" {
		quoteType = "space"
	}

	existing, err := findQuoteByProject(app, projectID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if _, err := app.FindRecordById("projects", projectID); err != nil {
		return nil, ErrNotFound
	}

	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return nil, fmt.Errorf("quotation: quotes collection: %w", err)
	}

	folio, err := GenerateFolio(app, time.Now())
	if err != nil {
		return nil, err
	}

	quote := core.NewRecord(quotesCol)
	quote.Set("project", projectID)
	quote.Set("quote_type", quoteType)
	quote.Set("folio", folio)
	quote.Set("tax_rate", defaults.TaxRate)
	quote.Set("margin_rate", defaults.MarginRate)
	quote.Set("status", "draft")

	if err := app.Save(quote); err != nil {
		if isUniqueViolation(err) {
			// Lost the race; the other writer's quote is the quote.
			winner, ferr := findQuoteByProject(app, projectID)
			if ferr != nil {
				return nil, ferr
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, fmt.Errorf("quotation: create quote for project %s: %w", projectID, err)
	}

	if _, err := CreateInitialVersion(app, quote.Id, "Cotización inicial en blanco"); err != nil && err != ErrVersionExists {
		return nil, err
	}

	// Reload so the caller sees the current_version pointer.
	return app.FindRecordById("quotes", quote.Id)
}

// RecordEnhancement derives quotation items from a saved enhancement image:
// detect billable changes, get or create the project's quote, skip images
// that were already billed, then create a forward-copied version carrying
// the detected items. A zero-item detection is a no-op -- non-billable edits
// never spawn versions. The caller (normally the background worker) owns
// error reporting; the image save itself is never affected.
func RecordEnhancement(app core.App, imageID string, defaults RateDefaults) error {
	image, err := app.FindRecordById("images", imageID)
	if err != nil {
		return ErrNotFound
	}

	drafts := DetectItems(app, image)
	if len(drafts) == 0 {
		log.Printf("quotation: image %s produced no billable items", imageID)
		return nil
	}

	quote, err := GetOrCreateQuote(app, image.GetString("project"), "space", defaults)
	if err != nil {
		return err
	}

	billed, err := hasItemsForImage(app, quote.Id, imageID)
	if err != nil {
		return err
	}
	if billed {
		log.Printf("quotation: image %s already billed on quote %s, skipping", imageID, quote.Id)
		return nil
	}

	_, err = CreateVersion(app, quote.Id, VersionOptions{
		Description: fmt.Sprintf("Actualización automática desde imagen %s", imageID),
		Drafts:      drafts,
		SpaceHint:   image.GetString("space"),
	})
	return err
}

// ItemInput is a manual quote line supplied through the API.
type ItemInput struct {
	SpaceID      string
	ItemName     string
	Category     string
	Description  string
	Quantity     float64
	UnitID       string
	UnitCost     float64
	LaborCost    float64
	TaxRate      *float64
	MarginRate   *float64
	ImageID      string
	Notes        string
	DisplayOrder float64
}

// AddItem appends a manual item to a version, which must still be the
// current version of its quote. Rates default from the quote; derived money
// fields are filled before the save.
func AddItem(app core.App, versionID string, in ItemInput) (*core.Record, error) {
	var item *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		quote, err := requireCurrentVersion(txApp, versionID)
		if err != nil {
			return err
		}

		itemsCol, err := txApp.FindCollectionByNameOrId("quote_items")
		if err != nil {
			return fmt.Errorf("quotation: quote_items collection: %w", err)
		}

		taxRate := quote.GetFloat("tax_rate")
		if in.TaxRate != nil {
			taxRate = *in.TaxRate
		}
		marginRate := quote.GetFloat("margin_rate")
		if in.MarginRate != nil {
			marginRate = *in.MarginRate
		}

		// Validate the rates that will actually be priced, overrides included.
		if err := ValidateItemInputs(ItemInputs{
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
			LaborCost:  in.LaborCost,
			TaxRate:    taxRate,
			MarginRate: marginRate,
		}); err != nil {
			return err
		}

		item = core.NewRecord(itemsCol)
		item.Set("version", versionID)
		item.Set("space", in.SpaceID)
		item.Set("item_name", in.ItemName)
		item.Set("category", in.Category)
		item.Set("description", in.Description)
		item.Set("quantity", in.Quantity)
		item.Set("unit", in.UnitID)
		item.Set("unit_cost", in.UnitCost)
		item.Set("labor_cost", in.LaborCost)
		item.Set("tax_rate", taxRate)
		item.Set("margin_rate", marginRate)
		item.Set("image", in.ImageID)
		item.Set("notes", in.Notes)
		item.Set("display_order", in.DisplayOrder)

		ApplyPricing(item)
		return txApp.Save(item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ItemPatch is a partial item update; nil fields keep their stored value
// (COALESCE semantics).
type ItemPatch struct {
	SpaceID      *string
	ItemName     *string
	Category     *string
	Description  *string
	Quantity     *float64
	UnitID       *string
	UnitCost     *float64
	LaborCost    *float64
	TaxRate      *float64
	MarginRate   *float64
	Notes        *string
	DisplayOrder *float64
}

// UpdateItem patches an item of the current version. Any change re-runs the
// pricing step: the three derived fields are recomputed together and can
// never go stale independently.
func UpdateItem(app core.App, versionID, itemID string, patch ItemPatch) (*core.Record, error) {
	var item *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		if _, err := requireCurrentVersion(txApp, versionID); err != nil {
			return err
		}

		var err error
		item, err = findVersionItem(txApp, versionID, itemID)
		if err != nil {
			return err
		}

		setString := func(field string, v *string) {
			if v != nil {
				item.Set(field, *v)
			}
		}
		setFloat := func(field string, v *float64) {
			if v != nil {
				item.Set(field, *v)
			}
		}

		setString("space", patch.SpaceID)
		setString("item_name", patch.ItemName)
		setString("category", patch.Category)
		setString("description", patch.Description)
		setString("unit", patch.UnitID)
		setString("notes", patch.Notes)
		setFloat("quantity", patch.Quantity)
		setFloat("unit_cost", patch.UnitCost)
		setFloat("labor_cost", patch.LaborCost)
		setFloat("tax_rate", patch.TaxRate)
		setFloat("margin_rate", patch.MarginRate)
		setFloat("display_order", patch.DisplayOrder)

		if err := ValidateItemInputs(ItemInputs{
			Quantity:   item.GetFloat("quantity"),
			UnitCost:   item.GetFloat("unit_cost"),
			LaborCost:  item.GetFloat("labor_cost"),
			TaxRate:    item.GetFloat("tax_rate"),
			MarginRate: item.GetFloat("margin_rate"),
		}); err != nil {
			return err
		}

		ApplyPricing(item)
		return txApp.Save(item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item from the current version of its quote.
func DeleteItem(app core.App, versionID, itemID string) error {
	return app.RunInTransaction(func(txApp core.App) error {
		if _, err := requireCurrentVersion(txApp, versionID); err != nil {
			return err
		}
		item, err := findVersionItem(txApp, versionID, itemID)
		if err != nil {
			return err
		}
		return txApp.Delete(item)
	})
}

// ── helpers ──────────────────────────────────────────────────────────────

func findQuoteByProject(app core.App, projectID string) (*core.Record, error) {
	quotes, err := app.FindRecordsByFilter(
		"quotes",
		"project = {:projectId}",
		"-created",
		1,
		0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return nil, fmt.Errorf("quotation: query quote for project %s: %w", projectID, err)
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return quotes[0], nil
}

// requireCurrentVersion loads a version and its quote, failing with
// ErrConflict when the version is no longer the quote's current one.
// Superseded versions stay queryable but are immutable.
func requireCurrentVersion(app core.App, versionID string) (*core.Record, error) {
	version, err := app.FindRecordById("quote_versions", versionID)
	if err != nil {
		return nil, ErrNotFound
	}
	quote, err := app.FindRecordById("quotes", version.GetString("quote"))
	if err != nil {
		return nil, ErrNotFound
	}
	if quote.GetString("current_version") != versionID {
		return nil, ErrConflict
	}
	return quote, nil
}

func findVersionItem(app core.App, versionID, itemID string) (*core.Record, error) {
	item, err := app.FindRecordById("quote_items", itemID)
	if err != nil {
		return nil, ErrNotFound
	}
	if item.GetString("version") != versionID {
		return nil, ErrNotFound
	}
	return item, nil
}

// hasItemsForImage reports whether any version of the quote already carries
// items billed from the given image; the de-duplication check behind
// at-most-once enhancement processing.
func hasItemsForImage(app core.App, quoteID, imageID string) (bool, error) {
	items, err := app.FindRecordsByFilter(
		"quote_items",
		"image = {:imageId} && version.quote = {:quoteId}",
		"",
		1,
		0,
		map[string]any{"imageId": imageID, "quoteId": quoteID},
	)
	if err != nil {
		return false, fmt.Errorf("quotation: image dedup check: %w", err)
	}
	return len(items) > 0, nil
}
