package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"keuangan/internal/core"
	"keuangan/internal/sheets"
)

// LedgerService is one reporting and editing session over a record source.
// Every call works on a freshly fetched snapshot.
type LedgerService struct {
	source      sheets.RecordSource
	writer      *LedgerWriter
	ledgerTable string
	holdsTable  string
	now         func() time.Time

	// appendMu serializes tail-read plus append within this process.
	appendMu sync.Mutex
}

func NewLedgerService(source sheets.RecordSource, writer *LedgerWriter, ledgerTable, holdsTable string) *LedgerService {
	return &LedgerService{
		source:      source,
		writer:      writer,
		ledgerTable: ledgerTable,
		holdsTable:  holdsTable,
		now:         time.Now,
	}
}

// Load fetches and normalizes the ledger table.
func (s *LedgerService) Load(ctx context.Context) (*core.Ledger, error) {
	rows, err := s.source.FetchAll(ctx, s.ledgerTable)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.ledgerTable, err)
	}
	l, err := core.Normalize(rows)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", s.ledgerTable, err)
	}
	return l, nil
}

// Report builds the dashboard for [start, end]. Zero bounds default to the
// first and last ledger dates.
func (s *LedgerService) Report(ctx context.Context, start, end core.Date) (core.Report, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return core.Report{}, err
	}
	w, err := core.ResolveWindow(l, start, end, core.DateOf(s.now()))
	if err != nil {
		return core.Report{}, err
	}
	r, err := core.BuildReport(l, w)
	if err != nil {
		return core.Report{}, err
	}
	slog.DebugContext(ctx, "Report built",
		"start", w.Start.String(),
		"end", w.End.String(),
		"records", len(r.Records))
	return r, nil
}

// Records returns the ledger records inside [start, end], with the same defaults as Report.
func (s *LedgerService) Records(ctx context.Context, start, end core.Date) ([]core.Record, core.DateWindow, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return nil, core.DateWindow{}, err
	}
	w, err := core.ResolveWindow(l, start, end, core.DateOf(s.now()))
	if err != nil {
		return nil, core.DateWindow{}, err
	}
	recs, err := core.Filter(l, w)
	if err != nil {
		return nil, core.DateWindow{}, err
	}
	return recs, w, nil
}

// Holds returns the funds-on-hold table exactly as the source delivers it.
func (s *LedgerService) Holds(ctx context.Context) ([]core.RawRow, error) {
	rows, err := s.source.FetchAll(ctx, s.holdsTable)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.holdsTable, err)
	}
	return rows, nil
}

// Add appends e with a balance computed from the whole, unfiltered ledger.
func (s *LedgerService) Add(ctx context.Context, e core.Entry) (core.Record, error) {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	l, err := s.Load(ctx)
	if err != nil {
		return core.Record{}, err
	}
	return s.writer.Append(ctx, l, e)
}

// Types lists the transaction types accepted by Add.
func (s *LedgerService) Types() []string {
	return s.writer.Types()
}
