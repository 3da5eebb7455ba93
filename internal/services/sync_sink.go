package services

import (
	"context"
	"fmt"
	"log/slog"

	"keuangan/internal/sheets"
)

// RowStore persists a row locally and returns its id.
type RowStore interface {
	AppendRowID(ctx context.Context, table string, values []any) (int64, error)
}

// RowPublisher announces a stored row to the sync worker.
type RowPublisher interface {
	PublishRowSync(ctx context.Context, rowID int64, table string) error
}

// SyncingSink saves rows to the local store first and then asks the worker to
// push them to the remote sheet.
type SyncingSink struct {
	store     RowStore
	publisher RowPublisher
}

var _ sheets.RecordSink = (*SyncingSink)(nil)

// NewSyncingSink accepts a nil publisher; rows then wait for the periodic sweep.
func NewSyncingSink(store RowStore, publisher RowPublisher) *SyncingSink {
	return &SyncingSink{store: store, publisher: publisher}
}

func (s *SyncingSink) AppendRow(ctx context.Context, table string, values []any) error {
	id, err := s.store.AppendRowID(ctx, table, values)
	if err != nil {
		return fmt.Errorf("save row: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, row left for periodic sync", "row_id", id)
		return nil
	}
	// The row is durable locally; a lost message only delays the push.
	if err := s.publisher.PublishRowSync(ctx, id, table); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "row_id", id, "error", err)
	}
	return nil
}
