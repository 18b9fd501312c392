package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// maxVersionRetries bounds how often a version insert is retried after a
// unique-index collision with a concurrent writer.
const maxVersionRetries = 3

// VersionOptions configures CreateVersion.
type VersionOptions struct {
	Description string
	IsFinal     bool
	CreatedBy   string
	// Drafts are appended to the new version after the forward-copy,
	// priced with the quote's rates.
	Drafts []DraftItem
	// SpaceHint is assigned to appended drafts that carry no space.
	SpaceHint string
}

// CreateInitialVersion creates version 1 with an empty item set and points
// the quote at it. Returns ErrVersionExists when the quote already has a
// version.
func CreateInitialVersion(app core.App, quoteID, description string) (*core.Record, error) {
	var version *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		quote, err := txApp.FindRecordById("quotes", quoteID)
		if err != nil {
			return ErrNotFound
		}

		maxNumber, err := maxVersionNumber(txApp, quoteID)
		if err != nil {
			return err
		}
		if maxNumber > 0 {
			return ErrVersionExists
		}

		versionsCol, err := txApp.FindCollectionByNameOrId("quote_versions")
		if err != nil {
			return fmt.Errorf("versions: quote_versions collection: %w", err)
		}

		version = core.NewRecord(versionsCol)
		version.Set("quote", quoteID)
		version.Set("version_number", 1)
		version.Set("changes_description", description)
		version.Set("is_final", false)
		if err := txApp.Save(version); err != nil {
			return fmt.Errorf("versions: save initial version: %w", err)
		}

		quote.Set("current_version", version.Id)
		return txApp.Save(quote)
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// CreateVersion creates the next version of a quote: it computes the next
// version number, forward-copies every item of the current version, appends
// the given drafts priced with the quote's rates, and repoints the quote's
// current version -- all in one transaction, so a failed copy leaves the
// pointer untouched. The version-number race with concurrent writers is
// resolved by the unique (quote, version_number) index with a bounded retry.
func CreateVersion(app core.App, quoteID string, opts VersionOptions) (*core.Record, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		version, err := createVersionOnce(app, quoteID, opts)
		if err == nil {
			return version, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("versions: gave up after %d attempts: %w", maxVersionRetries, lastErr)
}

func createVersionOnce(app core.App, quoteID string, opts VersionOptions) (*core.Record, error) {
	var version *core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		quote, err := txApp.FindRecordById("quotes", quoteID)
		if err != nil {
			return ErrNotFound
		}

		maxNumber, err := maxVersionNumber(txApp, quoteID)
		if err != nil {
			return err
		}
		next := maxNumber + 1

		description := opts.Description
		if description == "" {
			description = fmt.Sprintf("Versión %d", next)
		}

		versionsCol, err := txApp.FindCollectionByNameOrId("quote_versions")
		if err != nil {
			return fmt.Errorf("versions: quote_versions collection: %w", err)
		}

		version = core.NewRecord(versionsCol)
		version.Set("quote", quoteID)
		version.Set("version_number", next)
		version.Set("changes_description", description)
		version.Set("is_final", opts.IsFinal)
		version.Set("created_by", opts.CreatedBy)
		if err := txApp.Save(version); err != nil {
			return err
		}

		copied := 0
		if currentID := quote.GetString("current_version"); currentID != "" {
			copied, err = copyVersionItems(txApp, currentID, version.Id)
			if err != nil {
				return err
			}
		}

		for i, draft := range opts.Drafts {
			if _, err := saveDraftItem(txApp, version.Id, draft, opts.SpaceHint, quote, copied+i+1); err != nil {
				return err
			}
		}

		// Repoint last, once every copy and append has succeeded.
		quote.Set("current_version", version.Id)
		return txApp.Save(quote)
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// AppendDetectedItems inserts drafts into a version that must still be the
// current version of its quote. Returns ErrConflict when the version has
// been superseded since the caller fetched it.
func AppendDetectedItems(app core.App, versionID string, drafts []DraftItem, spaceHint string) ([]*core.Record, error) {
	var saved []*core.Record

	err := app.RunInTransaction(func(txApp core.App) error {
		version, err := txApp.FindRecordById("quote_versions", versionID)
		if err != nil {
			return ErrNotFound
		}

		quote, err := txApp.FindRecordById("quotes", version.GetString("quote"))
		if err != nil {
			return ErrNotFound
		}
		if quote.GetString("current_version") != versionID {
			return ErrConflict
		}

		existing, err := FindVersionItems(txApp, versionID)
		if err != nil {
			return err
		}

		for i, draft := range drafts {
			item, err := saveDraftItem(txApp, versionID, draft, spaceHint, quote, len(existing)+i+1)
			if err != nil {
				return err
			}
			saved = append(saved, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// MarkFinal flags a version as final. The transition is one-way; calling it
// on an already-final version is a no-op. Finality marks the version, not
// the quote: later drafts may still supersede it.
func MarkFinal(app core.App, versionID string) (*core.Record, error) {
	version, err := app.FindRecordById("quote_versions", versionID)
	if err != nil {
		return nil, ErrNotFound
	}
	if version.GetBool("is_final") {
		return version, nil
	}
	version.Set("is_final", true)
	if err := app.Save(version); err != nil {
		return nil, fmt.Errorf("versions: mark final: %w", err)
	}
	return version, nil
}

// FindVersionItems returns the items of a version in display order.
func FindVersionItems(app core.App, versionID string) ([]*core.Record, error) {
	items, err := app.FindRecordsByFilter(
		"quote_items",
		"version = {:versionId}",
		"display_order,item_name",
		0,
		0,
		map[string]any{"versionId": versionID},
	)
	if err != nil {
		return nil, fmt.Errorf("versions: query items of %s: %w", versionID, err)
	}
	return items, nil
}

// copyVersionItems deep-copies every item of one version into another (new
// ids, same field values). Returns the number of copied items.
func copyVersionItems(app core.App, fromVersionID, toVersionID string) (int, error) {
	items, err := FindVersionItems(app, fromVersionID)
	if err != nil {
		return 0, err
	}

	itemsCol, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		return 0, fmt.Errorf("versions: quote_items collection: %w", err)
	}

	copiedFields := []string{
		"space", "item_name", "category", "description", "materials",
		"material_ids", "quantity", "unit", "unit_cost", "labor_cost",
		"tax_rate", "margin_rate", "subtotal", "price_with_tax", "profit",
		"image", "notes", "display_order",
	}

	for _, item := range items {
		clone := core.NewRecord(itemsCol)
		clone.Set("version", toVersionID)
		for _, field := range copiedFields {
			clone.Set(field, item.Get(field))
		}
		if err := app.Save(clone); err != nil {
			return 0, fmt.Errorf("versions: copy item %s: %w", item.Id, err)
		}
	}
	return len(items), nil
}

// saveDraftItem persists a detector draft as a quote item of the given
// version, defaulting rates from the quote and pricing it on the way in.
func saveDraftItem(app core.App, versionID string, draft DraftItem, spaceHint string, quote *core.Record, displayOrder int) (*core.Record, error) {
	itemsCol, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		return nil, fmt.Errorf("versions: quote_items collection: %w", err)
	}

	item := core.NewRecord(itemsCol)
	item.Set("version", versionID)
	item.Set("item_name", draft.ItemName)
	item.Set("category", draft.Category)
	item.Set("description", draft.Description)
	if len(draft.Materials) > 0 {
		item.Set("materials", draft.Materials)
	}
	if len(draft.MaterialIDs) > 0 {
		item.Set("material_ids", draft.MaterialIDs)
	}
	item.Set("quantity", draft.Quantity)
	item.Set("unit", draft.UnitID)
	item.Set("unit_cost", draft.UnitCost)
	item.Set("labor_cost", draft.LaborCost)
	item.Set("tax_rate", quote.GetFloat("tax_rate"))
	item.Set("margin_rate", quote.GetFloat("margin_rate"))
	item.Set("image", draft.ImageID)
	item.Set("display_order", displayOrder)
	if spaceHint != "" {
		item.Set("space", spaceHint)
	}

	ApplyPricing(item)

	if err := app.Save(item); err != nil {
		return nil, fmt.Errorf("versions: save detected item %q: %w", draft.ItemName, err)
	}
	return item, nil
}

func maxVersionNumber(app core.App, quoteID string) (int, error) {
	var maxNumber int
	err := app.DB().
		NewQuery("SELECT COALESCE(MAX(version_number), 0) FROM quote_versions WHERE quote = {:quote}").
		Bind(dbx.Params{"quote": quoteID}).
		Row(&maxNumber)
	if err != nil {
		return 0, fmt.Errorf("versions: max version number for %s: %w", quoteID, err)
	}
	return maxNumber, nil
}
