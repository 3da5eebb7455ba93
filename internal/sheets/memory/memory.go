package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"keuangan/internal/core"
	ports "keuangan/internal/sheets"
)

var _ ports.RecordStore = (*Store)(nil)

type table struct {
	headers []string
	rows    [][]any
}

// Store keeps tables in memory. Tables without a seed get the ledger headers
// on first append.
type Store struct {
	mu     sync.Mutex
	tables map[string]*table
}

func New() *Store {
	return &Store{tables: map[string]*table{}}
}

// NewFromFiles seeds one table per name from "<base>/<name>.csv". Missing
// files leave the table empty.
func NewFromFiles(base string, names ...string) (*Store, error) {
	s := New()
	for _, name := range names {
		headers, rows, err := readCSV(filepath.Join(base, name+".csv"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", name, err)
		}
		s.Seed(name, headers, rows)
	}
	return s, nil
}

// Seed replaces a table's contents.
func (s *Store) Seed(name string, headers []string, rows [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &table{headers: slices.Clone(headers)}
	for _, r := range rows {
		t.rows = append(t.rows, slices.Clone(r))
	}
	s.tables[name] = t
}

func (s *Store) FetchAll(_ context.Context, name string) ([]core.RawRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, nil
	}
	out := make([]core.RawRow, 0, len(t.rows))
	for _, cells := range t.rows {
		row := make(core.RawRow, len(t.headers))
		for i, h := range t.headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) AppendRow(_ context.Context, name string, values []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		t = &table{headers: slices.Clone(core.LedgerColumns)}
		s.tables[name] = t
	}
	if len(values) > len(t.headers) {
		return fmt.Errorf("table %s has %d columns, got %d values", name, len(t.headers), len(values))
	}
	t.rows = append(t.rows, slices.Clone(values))
	return nil
}

// Len returns the number of rows in a table.
func (s *Store) Len(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[name]; ok {
		return len(t.rows)
	}
	return 0
}

func readCSV(path string) ([]string, [][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = v
		}
		rows = append(rows, cells)
	}
	return headers, rows, nil
}
