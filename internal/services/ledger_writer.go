package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"keuangan/internal/core"
	"keuangan/internal/sheets"
)

// LedgerWriter turns an Entry into a Record carrying its running balance and
// hands it to the sink. It never touches the ledger it was given.
type LedgerWriter struct {
	sink  sheets.RecordSink
	table string
	types []string
}

// NewLedgerWriter writes to table through sink. An empty types list falls
// back to core.DefaultTypes.
func NewLedgerWriter(sink sheets.RecordSink, table string, types []string) *LedgerWriter {
	if len(types) == 0 {
		types = core.DefaultTypes
	}
	return &LedgerWriter{sink: sink, table: table, types: slices.Clone(types)}
}

// Types lists the transaction types accepted by Append.
func (w *LedgerWriter) Types() []string {
	return slices.Clone(w.types)
}

// Append validates e, derives its balance from the ledger tail and appends it.
// Validation failures return before the sink is called; sink failures come
// back as *core.WriteFailedError.
func (w *LedgerWriter) Append(ctx context.Context, l *core.Ledger, e core.Entry) (core.Record, error) {
	if err := e.Validate(w.types); err != nil {
		return core.Record{}, fmt.Errorf("validate entry: %w", err)
	}

	tail := l.TailBalance()
	delta := e.Amount.Mul(decimal.NewFromInt(e.Category.Sign()))
	rec := core.Record{
		Date:        e.Date,
		Description: e.Description,
		Category:    e.Category,
		Type:        e.Type,
		Amount:      e.Amount,
		Balance:     tail.Add(delta),
	}

	if err := w.sink.AppendRow(ctx, w.table, rec.Values()); err != nil {
		slog.ErrorContext(ctx, "Ledger append failed",
			"table", w.table,
			"date", rec.Date.String(),
			"category", rec.Category,
			"error", err)
		return core.Record{}, &core.WriteFailedError{Table: w.table, Err: err}
	}

	slog.InfoContext(ctx, "Ledger record appended",
		"table", w.table,
		"date", rec.Date.String(),
		"category", rec.Category,
		"type", rec.Type,
		"amount", rec.Amount.String(),
		"balance", rec.Balance.String())
	return rec, nil
}
