package sheets

import (
	"context"

	"keuangan/internal/core"
)

// Ports for outbound adapters.
type (
	// RecordSource returns every row of a table, keyed by header name.
	RecordSource interface {
		FetchAll(ctx context.Context, table string) ([]core.RawRow, error)
	}

	// RecordSink appends one row to a table. Values follow the table's column order.
	RecordSink interface {
		AppendRow(ctx context.Context, table string, values []any) error
	}

	RecordStore interface {
		RecordSource
		RecordSink
	}
)
