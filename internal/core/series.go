package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValueField selects the numeric column a daily series sums.
type ValueField int

const (
	FieldAmount ValueField = iota
	FieldBalance
)

func (f ValueField) String() string {
	switch f {
	case FieldAmount:
		return ColumnAmount
	case FieldBalance:
		return ColumnBalance
	}
	return fmt.Sprintf("ValueField(%d)", int(f))
}

func (f ValueField) of(r Record) decimal.Decimal {
	if f == FieldBalance {
		return r.Balance
	}
	return r.Amount
}

type DailyPoint struct {
	Date  Date
	Value decimal.Decimal
}

// DailySeries has exactly one point per day of its window, in ascending order.
type DailySeries []DailyPoint

// Total sums every point of the series.
func (s DailySeries) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s {
		total = total.Add(p.Value)
	}
	return total
}

// BuildDailySeries sums field per day for records of category. Days without a
// matching record are present with a zero value; records outside the window are ignored.
func BuildDailySeries(records []Record, w DateWindow, category Category, field ValueField) (DailySeries, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if field != FieldAmount && field != FieldBalance {
		return nil, fmt.Errorf("unknown value field %v", field)
	}

	sums := make(map[Date]decimal.Decimal)
	for _, r := range records {
		if r.Category != category || !w.Contains(r.Date) {
			continue
		}
		sums[r.Date] = sums[r.Date].Add(field.of(r))
	}

	days := w.Days()
	series := make(DailySeries, 0, days)
	for i := 0; i < days; i++ {
		d := w.Start.AddDays(i)
		v, ok := sums[d]
		if !ok {
			v = decimal.Zero
		}
		series = append(series, DailyPoint{Date: d, Value: v})
	}
	return series, nil
}
