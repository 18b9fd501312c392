package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// formatFolio constructs the quote folio string from components.
func formatFolio(year int, sequence int) string {
	return fmt.Sprintf("COT-%d-%03d", year, sequence)
}

// GenerateFolio creates the next quotation folio for the calendar year.
// Format: COT-{year}-{sequence}, sequence 3-digit zero-padded per year.
func GenerateFolio(app core.App, now time.Time) (string, error) {
	prefix := fmt.Sprintf("COT-%d-", now.Year())

	existing, err := app.FindRecordsByFilter(
		"quotes",
		"folio ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		existing = nil
	}

	return formatFolio(now.Year(), len(existing)+1), nil
}
