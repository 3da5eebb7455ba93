package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(date, desc, cat, typ string, amount, balance any) RawRow {
	return RawRow{
		ColumnDate:        date,
		ColumnDescription: desc,
		ColumnCategory:    cat,
		ColumnType:        typ,
		ColumnAmount:      amount,
		ColumnBalance:     balance,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestNormalizeSortsStable(t *testing.T) {
	rows := []RawRow{
		row("03/01/2024", "c", "Pengeluaran", "Konsumsi", 30.0, 70.0),
		row("01/01/2024", "a", "Pemasukan", "Internal", 100.0, 100.0),
		row("03/01/2024", "d", "Pengeluaran", "OB", 10.0, 60.0),
		row("02/01/2024", "b", "Pemasukan", "Internal", 0.0, 100.0),
		row("03/01/2024", "e", "Pemasukan", "Honor", 5.0, 65.0),
	}
	l, err := Normalize(rows)
	require.NoError(t, err)

	var got []string
	for _, r := range l.Records() {
		got = append(got, r.Description)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestNormalizeKeepsOrderOfSortedInput(t *testing.T) {
	rows := []RawRow{
		row("01/01/2024", "first", "Pemasukan", "Internal", 10, 10),
		row("01/01/2024", "second", "Pemasukan", "Internal", 10, 20),
		row("01/01/2024", "third", "Pengeluaran", "OB", 5, 15),
	}
	l, err := Normalize(rows)
	require.NoError(t, err)
	recs := l.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "first", recs[0].Description)
	assert.Equal(t, "second", recs[1].Description)
	assert.Equal(t, "third", recs[2].Description)
}

func TestNormalizeParsesCells(t *testing.T) {
	rows := []RawRow{
		row("5/1/2024", " Dana masuk ", "Income", "Internal", "Rp 1,500,000", "1500000"),
		row("06/01/2024", "Lain", "Hibah", "Lainnya", int64(20), nil),
	}
	l, err := Normalize(rows)
	require.NoError(t, err)
	recs := l.Records()

	assert.True(t, recs[0].Date.Equal(NewDate(2024, 1, 5)))
	assert.Equal(t, "Dana masuk", recs[0].Description)
	assert.Equal(t, Income, recs[0].Category)
	assert.True(t, recs[0].Amount.Equal(dec(1500000)))
	assert.True(t, recs[0].Balance.Equal(dec(1500000)))

	assert.Equal(t, Category("Hibah"), recs[1].Category)
	assert.True(t, recs[1].Amount.Equal(dec(20)))
	assert.True(t, recs[1].Balance.IsZero())
}

func TestNormalizeMalformedDate(t *testing.T) {
	rows := []RawRow{
		row("01/01/2024", "ok", "Pemasukan", "Internal", 1, 1),
		row("2024-01-02", "bad", "Pemasukan", "Internal", 1, 2),
	}
	l, err := Normalize(rows)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.ErrorIs(t, err, ErrMalformedDate)

	var mde *MalformedDateError
	require.True(t, errors.As(err, &mde))
	assert.Equal(t, 2, mde.Row)
	assert.Equal(t, "2024-01-02", mde.Value)
	assert.Contains(t, err.Error(), "row 2")
}

func TestNormalizeMalformedNumber(t *testing.T) {
	rows := []RawRow{
		row("01/01/2024", "x", "Pemasukan", "Internal", "seratus", 1),
	}
	_, err := Normalize(rows)
	assert.ErrorIs(t, err, ErrMalformedNumber)

	var mne *MalformedNumberError
	require.True(t, errors.As(err, &mne))
	assert.Equal(t, ColumnAmount, mne.Field)
	assert.Equal(t, 1, mne.Row)
}

func TestNormalizeEmpty(t *testing.T) {
	l, err := Normalize(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.TailBalance().IsZero())
	_, _, ok := l.Span()
	assert.False(t, ok)
}

func TestTailBalance(t *testing.T) {
	l := NewLedger([]Record{
		{Date: NewDate(2024, 1, 3), Category: Expense, Amount: dec(30), Balance: dec(70)},
		{Date: NewDate(2024, 1, 1), Category: Income, Amount: dec(100), Balance: dec(100)},
	})
	assert.True(t, l.TailBalance().Equal(dec(70)))

	first, last, ok := l.Span()
	require.True(t, ok)
	assert.True(t, first.Equal(NewDate(2024, 1, 1)))
	assert.True(t, last.Equal(NewDate(2024, 1, 3)))
}

func TestLedgerRecordsIsCopy(t *testing.T) {
	l := NewLedger([]Record{{Date: NewDate(2024, 1, 1), Description: "a"}})
	recs := l.Records()
	recs[0].Description = "changed"
	assert.Equal(t, "a", l.Records()[0].Description)
}
