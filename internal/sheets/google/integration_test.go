//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"keuangan/internal/core"
)

// Integration tests require a real spreadsheet and service account.
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_FetchAndAppend(t *testing.T) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	table := os.Getenv("INTEGRATION_TABLE")
	if table == "" {
		t.Skip("INTEGRATION_TABLE not set, refusing to write to the live ledger")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := New(ctx, Options{
		SpreadsheetID:      spreadsheetID,
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	before, err := c.FetchAll(ctx, table)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	rec := core.Record{
		Date:        core.DateOf(time.Now()),
		Description: "integration test",
		Category:    core.Income,
		Type:        "Lainnya",
	}
	if err := c.AppendRow(ctx, table, rec.Values()); err != nil {
		t.Fatalf("append: %v", err)
	}

	after, err := c.FetchAll(ctx, table)
	if err != nil {
		t.Fatalf("fetch after append: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d rows after append, got %d", len(before)+1, len(after))
	}
}
