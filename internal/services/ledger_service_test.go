package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keuangan/internal/core"
	"keuangan/internal/sheets/memory"
)

var ledgerHeaders = core.LedgerColumns

func seededStore() *memory.Store {
	s := memory.New()
	s.Seed("Sheet1", ledgerHeaders, [][]any{
		{"03/01/2024", "Snack", "Pengeluaran", "Konsumsi", 30.0, 70.0},
		{"01/01/2024", "Dana awal", "Pemasukan", "Internal", 100.0, 100.0},
	})
	s.Seed("Sheet2", []string{"Nama", "Jumlah"}, [][]any{{"Hibah", 5000.0}})
	return s
}

func newService(store *memory.Store) *LedgerService {
	svc := NewLedgerService(store, NewLedgerWriter(store, "Sheet1", nil), "Sheet1", "Sheet2")
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestServiceReportDefaultsToLedgerSpan(t *testing.T) {
	svc := newService(seededStore())

	r, err := svc.Report(context.Background(), core.Date{}, core.Date{})
	require.NoError(t, err)
	assert.True(t, r.Window.Start.Equal(core.NewDate(2024, 1, 1)))
	assert.True(t, r.Window.End.Equal(core.NewDate(2024, 1, 3)))
	assert.True(t, r.TotalIncome.Equal(amount(100)))
	assert.True(t, r.TotalExpense.Equal(amount(30)))
	assert.True(t, r.LatestBalance.Equal(amount(70)))
	assert.Len(t, r.DailyExpense, 3)
}

func TestServiceReportInvalidRange(t *testing.T) {
	svc := newService(seededStore())
	_, err := svc.Report(context.Background(), core.NewDate(2024, 2, 10), core.NewDate(2024, 2, 1))
	assert.ErrorIs(t, err, core.ErrInvalidRange)
}

func TestServiceReportMalformedSource(t *testing.T) {
	store := memory.New()
	store.Seed("Sheet1", ledgerHeaders, [][]any{{"bukan tanggal", "x", "Pemasukan", "Internal", 1.0, 1.0}})
	svc := newService(store)

	_, err := svc.Report(context.Background(), core.Date{}, core.Date{})
	assert.ErrorIs(t, err, core.ErrMalformedDate)
}

func TestServiceEmptyLedgerUsesToday(t *testing.T) {
	svc := newService(memory.New())
	r, err := svc.Report(context.Background(), core.Date{}, core.Date{})
	require.NoError(t, err)
	assert.True(t, r.Window.Start.Equal(core.NewDate(2024, 6, 1)))
	assert.Len(t, r.DailyIncome, 1)
	assert.True(t, r.LatestBalance.IsZero())
}

func TestServiceRecordsFiltered(t *testing.T) {
	svc := newService(seededStore())
	recs, w, err := svc.Records(context.Background(), core.NewDate(2024, 1, 2), core.Date{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Snack", recs[0].Description)
	assert.True(t, w.End.Equal(core.NewDate(2024, 1, 3)))
}

func TestServiceHoldsPassthrough(t *testing.T) {
	svc := newService(seededStore())
	rows, err := svc.Holds(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, core.RawRow{"Nama": "Hibah", "Jumlah": 5000.0}, rows[0])
}

func TestServiceAddUsesUnfilteredTail(t *testing.T) {
	store := seededStore()
	svc := newService(store)
	ctx := context.Background()

	rec, err := svc.Add(ctx, core.Entry{
		Date:     core.NewDate(2024, 1, 4),
		Category: core.Income,
		Type:     "Honor",
		Amount:   amount(50),
	})
	require.NoError(t, err)
	assert.True(t, rec.Balance.Equal(amount(120)))
	assert.Equal(t, 3, store.Len("Sheet1"))

	// the filtered view does not change the tail used for the next append
	_, _, err = svc.Records(ctx, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 1))
	require.NoError(t, err)
	rec, err = svc.Add(ctx, core.Entry{
		Date:     core.NewDate(2024, 1, 5),
		Category: core.Expense,
		Type:     "OB",
		Amount:   amount(20),
	})
	require.NoError(t, err)
	assert.True(t, rec.Balance.Equal(amount(100)), "balance = %s", rec.Balance)

	// a back-dated entry still continues from the chronologically last record
	rec, err = svc.Add(ctx, core.Entry{
		Date:     core.NewDate(2024, 1, 2),
		Category: core.Expense,
		Type:     "OB",
		Amount:   amount(10),
	})
	require.NoError(t, err)
	assert.True(t, rec.Balance.Equal(amount(90)), "balance = %s", rec.Balance)
}

func TestServiceAddSerializesAppends(t *testing.T) {
	store := memory.New()
	svc := newService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, core.Entry{
				Date:     core.NewDate(2024, 1, 1),
				Category: core.Income,
				Type:     "Internal",
				Amount:   amount(10),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	l, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.True(t, l.TailBalance().Equal(amount(100)), "tail = %s", l.TailBalance())
}

type failingSource struct{}

func (failingSource) FetchAll(context.Context, string) ([]core.RawRow, error) {
	return nil, errors.New("network down")
}

func TestServiceAddPropagatesLoadError(t *testing.T) {
	sink := &spySink{}
	svc := NewLedgerService(failingSource{}, NewLedgerWriter(sink, "Sheet1", nil), "Sheet1", "Sheet2")
	_, err := svc.Add(context.Background(), entry(core.Income, 5))
	assert.Error(t, err)
	assert.Equal(t, 0, sink.calls)
}
