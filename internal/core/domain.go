package core

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sheet headers of the ledger table.
const (
	ColumnDate        = "Tanggal"
	ColumnDescription = "Deskripsi"
	ColumnCategory    = "Kategori"
	ColumnType        = "Tipe"
	ColumnAmount      = "Jumlah"
	ColumnBalance     = "Saldo"
)

// LedgerColumns is the column order of the ledger table.
var LedgerColumns = []string{
	ColumnDate,
	ColumnDescription,
	ColumnCategory,
	ColumnType,
	ColumnAmount,
	ColumnBalance,
}

const (
	Income  Category = "Pemasukan"
	Expense Category = "Pengeluaran"
)

// DefaultTypes is the set of transaction types offered when recording a new entry.
var DefaultTypes = []string{
	"Internal",
	"Bahan Persediaan",
	"Dana Taktis",
	"OB",
	"Konsumsi",
	"Honor",
	"Lainnya",
}

// DateLayout is the textual date format used by the ledger table.
const DateLayout = "02/01/2006"

// dateParseLayout accepts both zero-padded and bare day/month numbers.
const dateParseLayout = "2/1/2006"

type (
	Category string

	Date struct {
		time.Time
	}

	// RawRow is one row of a table keyed by header name, as returned by a RecordSource.
	RawRow map[string]any

	// Record is a single ledger transaction.
	Record struct {
		Date        Date
		Description string
		Category    Category
		Type        string
		Amount      decimal.Decimal
		Balance     decimal.Decimal // running balance after this record
	}

	// Entry is a transaction that has not been written yet; its balance is derived on append.
	Entry struct {
		Date        Date
		Description string
		Category    Category
		Type        string
		Amount      decimal.Decimal
	}
)

// ParseCategory maps a label to its canonical category. Sheet labels and their
// English names are accepted, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pemasukan", "income":
		return Income, nil
	case "pengeluaran", "expense":
		return Expense, nil
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	return c == Income || c == Expense
}

// Sign is +1 for income and -1 for expense.
func (c Category) Sign() int64 {
	if c == Expense {
		return -1
	}
	return 1
}

func (c Category) String() string { return string(c) }

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a dd/mm/yyyy date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateParseLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// ParseInputDate accepts ISO dates (YYYY-MM-DD, as sent by date inputs and
// typed on the command line) as well as dd/mm/yyyy.
func ParseInputDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t), nil
	}
	return ParseDate(s)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date the way the ledger table stores it.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.Time.Compare(o.Time) }

// Values returns the record in ledger column order, ready for a RecordSink.
// Amounts are passed as numbers so spreadsheet backends keep them numeric.
func (r Record) Values() []any {
	return []any{
		r.Date.String(),
		r.Description,
		string(r.Category),
		r.Type,
		r.Amount.InexactFloat64(),
		r.Balance.InexactFloat64(),
	}
}

// Row returns the record as a RawRow keyed by ledger headers.
func (r Record) Row() RawRow {
	values := r.Values()
	row := make(RawRow, len(LedgerColumns))
	for i, col := range LedgerColumns {
		row[col] = values[i]
	}
	return row
}

// Validate checks an entry against the set of allowed types.
func (e Entry) Validate(types []string) error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !slices.Contains(types, e.Type) {
		return ErrInvalidType
	}
	return nil
}
