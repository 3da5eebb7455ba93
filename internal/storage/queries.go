package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncFailed  = "error"
)

type SheetRow struct {
	ID         int64
	TableName  string
	Payload    string
	Cells      string
	SyncStatus string
	SyncError  sql.NullString
	Attempts   int64
	CreatedAt  time.Time
	SyncedAt   sql.NullTime
}

const sheetRowColumns = `id, table_name, payload, cells, sync_status, sync_error, attempts, created_at, synced_at`

func scanSheetRow(sc interface{ Scan(...any) error }) (SheetRow, error) {
	var r SheetRow
	err := sc.Scan(&r.ID, &r.TableName, &r.Payload, &r.Cells, &r.SyncStatus, &r.SyncError, &r.Attempts, &r.CreatedAt, &r.SyncedAt)
	return r, err
}

func collectSheetRows(rows *sql.Rows) ([]SheetRow, error) {
	defer rows.Close()
	var items []SheetRow
	for rows.Next() {
		r, err := scanSheetRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const insertSheetRow = `INSERT INTO sheet_rows (table_name, payload, cells, sync_status)
VALUES (?, ?, ?, ?)
RETURNING ` + sheetRowColumns

type InsertSheetRowParams struct {
	TableName  string
	Payload    string
	Cells      string
	SyncStatus string
}

func (q *Queries) InsertSheetRow(ctx context.Context, arg InsertSheetRowParams) (SheetRow, error) {
	row := q.db.QueryRowContext(ctx, insertSheetRow, arg.TableName, arg.Payload, arg.Cells, arg.SyncStatus)
	return scanSheetRow(row)
}

// Rows not yet pushed sit after every synced row, matching where the remote
// append will put them.
const listSheetRows = `SELECT ` + sheetRowColumns + ` FROM sheet_rows
WHERE table_name = ?
ORDER BY CASE WHEN sync_status = 'synced' THEN 0 ELSE 1 END, id`

func (q *Queries) ListSheetRows(ctx context.Context, tableName string) ([]SheetRow, error) {
	rows, err := q.db.QueryContext(ctx, listSheetRows, tableName)
	if err != nil {
		return nil, err
	}
	return collectSheetRows(rows)
}

const getSheetRow = `SELECT ` + sheetRowColumns + ` FROM sheet_rows WHERE id = ?`

func (q *Queries) GetSheetRow(ctx context.Context, id int64) (SheetRow, error) {
	return scanSheetRow(q.db.QueryRowContext(ctx, getSheetRow, id))
}

const listUnsyncedRows = `SELECT ` + sheetRowColumns + ` FROM sheet_rows
WHERE sync_status IN ('pending', 'error')
ORDER BY id
LIMIT ?`

func (q *Queries) ListUnsyncedRows(ctx context.Context, limit int64) ([]SheetRow, error) {
	rows, err := q.db.QueryContext(ctx, listUnsyncedRows, limit)
	if err != nil {
		return nil, err
	}
	return collectSheetRows(rows)
}

const countUnsyncedRows = `SELECT COUNT(*) FROM sheet_rows WHERE sync_status IN ('pending', 'error')`

func (q *Queries) CountUnsyncedRows(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUnsyncedRows).Scan(&n)
	return n, err
}

const markRowSynced = `UPDATE sheet_rows
SET sync_status = 'synced', sync_error = NULL, synced_at = CURRENT_TIMESTAMP
WHERE id = ?`

func (q *Queries) MarkRowSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markRowSynced, id)
	return err
}

const markRowSyncError = `UPDATE sheet_rows
SET sync_status = 'error', sync_error = ?, attempts = attempts + 1
WHERE id = ?`

func (q *Queries) MarkRowSyncError(ctx context.Context, id int64, msg string) error {
	_, err := q.db.ExecContext(ctx, markRowSyncError, msg, id)
	return err
}

const deleteSyncedTableRows = `DELETE FROM sheet_rows WHERE table_name = ? AND sync_status = 'synced'`

func (q *Queries) DeleteSyncedTableRows(ctx context.Context, tableName string) error {
	_, err := q.db.ExecContext(ctx, deleteSyncedTableRows, tableName)
	return err
}
