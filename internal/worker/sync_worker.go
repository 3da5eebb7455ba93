package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"keuangan/internal/amqp"
	"keuangan/internal/core"
	"keuangan/internal/sheets"
	"keuangan/internal/storage"
)

// RowQueue is the local side of the sync: rows appended offline that still
// need to reach the remote sheet.
type RowQueue interface {
	GetPendingRows(ctx context.Context, limit int) ([]storage.PendingRow, error)
	GetRow(ctx context.Context, id int64) (storage.PendingRow, string, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64, cause error) error
}

// TableReplacer receives full copies of remote tables.
type TableReplacer interface {
	ReplaceTable(ctx context.Context, table string, rows []core.RawRow) error
}

// SyncWorker pushes locally stored rows to the remote sheet.
type SyncWorker struct {
	queue     RowQueue
	remote    sheets.RecordSink
	batchSize int
}

func NewSyncWorker(queue RowQueue, remote sheets.RecordSink, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		queue:     queue,
		remote:    remote,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single row sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RowSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"message_id", msg.MessageID,
		"row_id", msg.RowID,
		"table", msg.Table)

	row, status, err := w.queue.GetRow(ctx, msg.RowID)
	if errors.Is(err, storage.ErrRowNotFound) {
		slog.WarnContext(ctx, "Sync message for unknown row, dropping", "row_id", msg.RowID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get row from storage: %w", err)
	}

	// Redelivery or the sweep got there first.
	if status == storage.SyncDone {
		slog.DebugContext(ctx, "Row already synced", "row_id", msg.RowID)
		return nil
	}

	return w.syncRow(ctx, row)
}

// ProcessPendingRows pushes one batch of pending rows. This is the backup path
// for lost AMQP messages and for rows that failed earlier.
func (w *SyncWorker) ProcessPendingRows(ctx context.Context) error {
	_, _, err := w.processBatch(ctx, w.batchSize)
	return err
}

// StartupSyncCheck drains a larger batch once when the worker starts.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, failed, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if synced+failed == 0 {
		slog.InfoContext(ctx, "No pending rows found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", synced+failed,
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) processBatch(ctx context.Context, limit int) (synced, failed int, err error) {
	pending, err := w.queue.GetPendingRows(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending rows: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	slog.InfoContext(ctx, "Processing pending rows", "count", len(pending))
	for _, row := range pending {
		if ctx.Err() != nil {
			return synced, failed, ctx.Err()
		}
		if err := w.syncRow(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to sync row", "row_id", row.ID, "error", err)
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}

func (w *SyncWorker) syncRow(ctx context.Context, row storage.PendingRow) error {
	if err := w.remote.AppendRow(ctx, row.Table, row.Values); err != nil {
		if markErr := w.queue.MarkSyncError(ctx, row.ID, err); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "row_id", row.ID, "error", markErr)
		}
		return fmt.Errorf("append row %d to %s: %w", row.ID, row.Table, err)
	}

	// The remote append already happened; a failed mark only risks a duplicate push.
	if err := w.queue.MarkSynced(ctx, row.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "row_id", row.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced row",
		"row_id", row.ID,
		"table", row.Table,
		"attempts", row.Attempts+1)
	return nil
}

// PullTables copies remote tables into the local store so local reads see
// rows entered directly in the sheet.
func PullTables(ctx context.Context, remote sheets.RecordSource, local TableReplacer, tables ...string) error {
	for _, table := range tables {
		rows, err := remote.FetchAll(ctx, table)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", table, err)
		}
		if err := local.ReplaceTable(ctx, table, rows); err != nil {
			return fmt.Errorf("replace %s: %w", table, err)
		}
		slog.InfoContext(ctx, "Table pulled", "table", table, "rows", len(rows))
	}
	return nil
}
