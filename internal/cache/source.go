package cache

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"time"

	"keuangan/internal/core"
	ports "keuangan/internal/sheets"
)

var errReadOnly = errors.New("cache store has no sink")

// Store memoizes table snapshots from a RecordSource for a fixed TTL.
// Appends go straight to the sink and drop the cached snapshot of that table.
type Store struct {
	source   ports.RecordSource
	sink     ports.RecordSink
	snapshot *LRUCache[[]core.RawRow]
}

var (
	_ ports.RecordStore = (*Store)(nil)
	_ Cleaner           = (*Store)(nil)
)

// NewStore wraps source and sink. sink may be nil for a read-only store.
func NewStore(source ports.RecordSource, sink ports.RecordSink, ttl time.Duration, maxTables int) *Store {
	return &Store{
		source:   source,
		sink:     sink,
		snapshot: NewLRUCache[[]core.RawRow](maxTables, ttl),
	}
}

func (s *Store) FetchAll(ctx context.Context, table string) ([]core.RawRow, error) {
	if rows, ok := s.snapshot.Get(table); ok {
		slog.DebugContext(ctx, "Snapshot cache hit", "table", table, "rows", len(rows))
		return cloneRows(rows), nil
	}
	rows, err := s.source.FetchAll(ctx, table)
	if err != nil {
		return nil, err
	}
	s.snapshot.Set(table, cloneRows(rows))
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, table string, values []any) error {
	if s.sink == nil {
		return errReadOnly
	}
	if err := s.sink.AppendRow(ctx, table, values); err != nil {
		return err
	}
	s.Invalidate(table)
	return nil
}

// Invalidate forgets the snapshot of one table.
func (s *Store) Invalidate(table string) {
	s.snapshot.Delete(table)
}

func (s *Store) CleanExpired() int {
	return s.snapshot.CleanExpired()
}

func cloneRows(rows []core.RawRow) []core.RawRow {
	if rows == nil {
		return nil
	}
	out := make([]core.RawRow, len(rows))
	for i, r := range rows {
		out[i] = maps.Clone(r)
	}
	return out
}
