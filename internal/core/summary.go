package core

import "github.com/shopspring/decimal"

// Report is the dashboard view of a ledger over one window.
type Report struct {
	Window        DateWindow
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	LatestBalance decimal.Decimal
	DailyIncome   DailySeries
	DailyExpense  DailySeries
	ExpenseByType TypeTotals
	Records       []Record
}

// BuildReport filters the ledger to w and derives every dashboard metric from the filtered records.
func BuildReport(l *Ledger, w DateWindow) (Report, error) {
	records, err := Filter(l, w)
	if err != nil {
		return Report{}, err
	}
	income, err := BuildDailySeries(records, w, Income, FieldAmount)
	if err != nil {
		return Report{}, err
	}
	expense, err := BuildDailySeries(records, w, Expense, FieldAmount)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Window:        w,
		TotalIncome:   SumByCategory(records, Income),
		TotalExpense:  SumByCategory(records, Expense),
		LatestBalance: LatestBalance(records),
		DailyIncome:   income,
		DailyExpense:  expense,
		ExpenseByType: SumGroupedByType(records, Expense),
		Records:       records,
	}, nil
}

// DefaultWindow spans the whole ledger, or only today when it is empty.
func DefaultWindow(l *Ledger, today Date) DateWindow {
	first, last, ok := l.Span()
	if !ok {
		return DateWindow{Start: today, End: today}
	}
	return DateWindow{Start: first, End: last}
}

// ResolveWindow fills zero bounds from the ledger span before validating.
func ResolveWindow(l *Ledger, start, end, today Date) (DateWindow, error) {
	def := DefaultWindow(l, today)
	if start.IsZero() {
		start = def.Start
	}
	if end.IsZero() {
		end = def.End
	}
	return NewDateWindow(start, end)
}
