package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"keuangan/internal/core"
	ports "keuangan/internal/sheets"

	_ "modernc.org/sqlite"
)

// ErrRowNotFound is returned when a row id does not exist.
var ErrRowNotFound = errors.New("row not found")

var _ ports.RecordStore = (*SQLiteRepository)(nil)

// SQLiteRepository stores table rows locally. Each row keeps its cells keyed by
// header for reads, and in column order for replay to a remote sheet.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// PendingRow is a locally appended row that has not reached the remote sheet yet.
type PendingRow struct {
	ID       int64
	Table    string
	Values   []any
	Attempts int64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The server and the worker share the file; wait on locks instead of
	// failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FetchAll implements sheets.RecordSource
func (r *SQLiteRepository) FetchAll(ctx context.Context, table string) ([]core.RawRow, error) {
	rows, err := r.queries.ListSheetRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("list rows of %s: %w", table, err)
	}
	out := make([]core.RawRow, 0, len(rows))
	for _, row := range rows {
		var raw core.RawRow
		if err := json.Unmarshal([]byte(row.Payload), &raw); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", row.ID, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// AppendRow implements sheets.RecordSink
func (r *SQLiteRepository) AppendRow(ctx context.Context, table string, values []any) error {
	_, err := r.AppendRowID(ctx, table, values)
	return err
}

// AppendRowID stores a ledger-ordered row as pending sync and returns its id.
func (r *SQLiteRepository) AppendRowID(ctx context.Context, table string, values []any) (int64, error) {
	if len(values) > len(core.LedgerColumns) {
		return 0, fmt.Errorf("table %s has %d columns, got %d values", table, len(core.LedgerColumns), len(values))
	}
	raw := make(core.RawRow, len(core.LedgerColumns))
	for i, col := range core.LedgerColumns {
		if i < len(values) {
			raw[col] = values[i]
		} else {
			raw[col] = ""
		}
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return 0, fmt.Errorf("encode row: %w", err)
	}
	cells, err := json.Marshal(values)
	if err != nil {
		return 0, fmt.Errorf("encode cells: %w", err)
	}

	row, err := r.queries.InsertSheetRow(ctx, InsertSheetRowParams{
		TableName:  table,
		Payload:    string(payload),
		Cells:      string(cells),
		SyncStatus: SyncPending,
	})
	if err != nil {
		return 0, fmt.Errorf("insert row into %s: %w", table, err)
	}

	slog.InfoContext(ctx, "Row saved to SQLite",
		"id", row.ID,
		"table", table,
		"cells", len(values))
	return row.ID, nil
}

// ReplaceTable swaps the local copy of a table for rows pulled from elsewhere.
// Pulled rows are marked synced; rows still waiting to be pushed are kept.
func (r *SQLiteRepository) ReplaceTable(ctx context.Context, table string, rows []core.RawRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteSyncedTableRows(ctx, table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i, raw := range rows {
		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
		row, err := q.InsertSheetRow(ctx, InsertSheetRowParams{
			TableName:  table,
			Payload:    string(payload),
			Cells:      "[]",
			SyncStatus: SyncDone,
		})
		if err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i+1, table, err)
		}
		if err := q.MarkRowSynced(ctx, row.ID); err != nil {
			return fmt.Errorf("mark row %d synced: %w", row.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Table replaced in SQLite", "table", table, "rows", len(rows))
	return nil
}

// GetPendingRows returns up to limit rows that still need a remote append, oldest first.
func (r *SQLiteRepository) GetPendingRows(ctx context.Context, limit int) ([]PendingRow, error) {
	rows, err := r.queries.ListUnsyncedRows(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending rows: %w", err)
	}
	out := make([]PendingRow, 0, len(rows))
	for _, row := range rows {
		p, err := toPending(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// GetRow returns a single row by id.
func (r *SQLiteRepository) GetRow(ctx context.Context, id int64) (PendingRow, string, error) {
	row, err := r.queries.GetSheetRow(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return PendingRow{}, "", fmt.Errorf("row %d: %w", id, ErrRowNotFound)
	}
	if err != nil {
		return PendingRow{}, "", fmt.Errorf("get row %d: %w", id, err)
	}
	p, err := toPending(row)
	if err != nil {
		return PendingRow{}, "", err
	}
	return p, row.SyncStatus, nil
}

func (r *SQLiteRepository) CountPending(ctx context.Context) (int64, error) {
	n, err := r.queries.CountUnsyncedRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("count pending rows: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkRowSynced(ctx, id); err != nil {
		return fmt.Errorf("mark row %d synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64, cause error) error {
	if err := r.queries.MarkRowSyncError(ctx, id, cause.Error()); err != nil {
		return fmt.Errorf("mark row %d sync error: %w", id, err)
	}
	return nil
}

func toPending(row SheetRow) (PendingRow, error) {
	var values []any
	if err := json.Unmarshal([]byte(row.Cells), &values); err != nil {
		return PendingRow{}, fmt.Errorf("decode cells of row %d: %w", row.ID, err)
	}
	return PendingRow{ID: row.ID, Table: row.TableName, Values: values, Attempts: row.Attempts}, nil
}
