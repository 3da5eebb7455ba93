package core

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// TypeTotals maps a transaction type to its summed amount. It carries no order.
type TypeTotals map[string]decimal.Decimal

// TypeTotal is one entry of TypeTotals.
type TypeTotal struct {
	Type  string
	Total decimal.Decimal
}

// SumByCategory totals the amounts of records in category.
func SumByCategory(records []Record, category Category) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Category == category {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// LatestBalance is the balance of the last record, or zero when there is none.
func LatestBalance(records []Record) decimal.Decimal {
	if len(records) == 0 {
		return decimal.Zero
	}
	return records[len(records)-1].Balance
}

// SumGroupedByType totals the amounts of records in category per type.
func SumGroupedByType(records []Record, category Category) TypeTotals {
	totals := TypeTotals{}
	for _, r := range records {
		if r.Category != category {
			continue
		}
		totals[r.Type] = totals[r.Type].Add(r.Amount)
	}
	return totals
}

// Sorted lists the totals largest first, ties broken by type name.
func (t TypeTotals) Sorted() []TypeTotal {
	out := make([]TypeTotal, 0, len(t))
	for typ, total := range t {
		out = append(out, TypeTotal{Type: typ, Total: total})
	}
	slices.SortFunc(out, func(a, b TypeTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return out
}
