package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Ledger is an immutable, date-ordered snapshot of the transactional table.
type Ledger struct {
	records []Record
}

// NewLedger orders records by date. Records sharing a date keep their relative order.
func NewLedger(records []Record) *Ledger {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return a.Date.Compare(b.Date)
	})
	return &Ledger{records: sorted}
}

// Normalize parses raw table rows into a Ledger. The first row whose date does
// not parse aborts the whole snapshot.
func Normalize(rows []RawRow) (*Ledger, error) {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := recordFromRow(i+1, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return NewLedger(records), nil
}

func recordFromRow(pos int, row RawRow) (Record, error) {
	dateText := cellText(row[ColumnDate])
	date, err := ParseDate(dateText)
	if err != nil {
		return Record{}, &MalformedDateError{Row: pos, Value: dateText, Err: err}
	}

	amount, err := cellAmount(row[ColumnAmount])
	if err != nil {
		return Record{}, &MalformedNumberError{Row: pos, Field: ColumnAmount, Value: cellText(row[ColumnAmount])}
	}
	balance, err := cellAmount(row[ColumnBalance])
	if err != nil {
		return Record{}, &MalformedNumberError{Row: pos, Field: ColumnBalance, Value: cellText(row[ColumnBalance])}
	}

	category := Category(cellText(row[ColumnCategory]))
	if c, err := ParseCategory(string(category)); err == nil {
		category = c
	}

	return Record{
		Date:        date,
		Description: cellText(row[ColumnDescription]),
		Category:    category,
		Type:        cellText(row[ColumnType]),
		Amount:      amount,
		Balance:     balance,
	}, nil
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Records returns a copy of the ordered records.
func (l *Ledger) Records() []Record {
	return slices.Clone(l.records)
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// TailBalance is the balance of the chronologically last record, or zero for an empty ledger.
func (l *Ledger) TailBalance() decimal.Decimal {
	if len(l.records) == 0 {
		return decimal.Zero
	}
	return l.records[len(l.records)-1].Balance
}

// Span returns the earliest and latest record dates. ok is false for an empty ledger.
func (l *Ledger) Span() (first, last Date, ok bool) {
	if len(l.records) == 0 {
		return Date{}, Date{}, false
	}
	return l.records[0].Date, l.records[len(l.records)-1].Date, true
}
