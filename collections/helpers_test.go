package collections

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// newRecord saves a record with the given fields, failing the test on error.
func newRecord(t *testing.T, app *pocketbase.PocketBase, col *core.Collection, fields map[string]any) *core.Record {
	t.Helper()

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save %s record: %v", col.Name, err)
	}
	return record
}

// containsAll reports whether s contains every needle, case-insensitively.
func containsAll(s string, needles ...string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if !strings.Contains(lower, strings.ToLower(n)) {
			return false
		}
	}
	return true
}
