package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MigrateQuotesWithoutVersions finds quotes that have no version yet (or a
// dangling current_version pointer) and creates/links an empty initial
// version for each. Safe to call on every startup -- returns early if
// nothing to migrate.
func MigrateQuotesWithoutVersions(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotes collection: %w", err)
	}

	versionsCol, err := app.FindCollectionByNameOrId("quote_versions")
	if err != nil {
		return fmt.Errorf("migrate: could not find quote_versions collection: %w", err)
	}

	quotes, err := app.FindRecordsByFilter(quotesCol, "id != ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}

	migrated := 0
	for _, quote := range quotes {
		pointer := quote.GetString("current_version")
		if pointer != "" {
			if _, err := app.FindRecordById("quote_versions", pointer); err == nil {
				continue
			}
			log.Printf("migrate: quote %s points at missing version %s, repairing\n", quote.Id, pointer)
		}

		// Reuse the newest existing version when one exists, otherwise
		// create an empty v1.
		versions, err := app.FindRecordsByFilter(
			versionsCol,
			"quote = {:quoteId}",
			"-version_number",
			1,
			0,
			map[string]any{"quoteId": quote.Id},
		)
		if err != nil {
			return fmt.Errorf("migrate: could not query versions for quote %s: %w", quote.Id, err)
		}

		var target *core.Record
		if len(versions) > 0 {
			target = versions[0]
		} else {
			target = core.NewRecord(versionsCol)
			target.Set("quote", quote.Id)
			target.Set("version_number", 1)
			target.Set("changes_description", "Cotización inicial en blanco")
			target.Set("is_final", false)
			if err := app.Save(target); err != nil {
				log.Printf("migrate: failed to create initial version for quote %s: %v\n", quote.Id, err)
				continue
			}
		}

		quote.Set("current_version", target.Id)
		if err := app.Save(quote); err != nil {
			log.Printf("migrate: failed to link quote %s to version %s: %v\n", quote.Id, target.Id, err)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate: repaired version pointers on %d quote(s)\n", migrated)
	}
	return nil
}
