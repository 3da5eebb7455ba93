// Package core provides the ledger model and the analytics computed over it.
//
// This file contains helpers for reading amounts out of table cells and user
// input, and for rendering them as Rupiah.
package core

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount converts user or cell text into a decimal amount.
//
// An optional "Rp" prefix is dropped, commas are treated as thousands
// separators and a dot as the decimal point. Empty text is zero.
//
// Examples:
//
//	ParseAmount("150000")      -> 150000
//	ParseAmount("Rp 1,250,000") -> 1250000
//	ParseAmount("12.5")        -> 12.5
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimPrefix(s, "rp")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return d, nil
}

// cellAmount reads a numeric cell. Spreadsheet sources deliver numbers as
// float64; file and database sources deliver text.
func cellAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		return ParseAmount(n)
	default:
		return ParseAmount(fmt.Sprint(n))
	}
}

// FormatRupiah renders an amount rounded to whole Rupiah with thousands separators.
func FormatRupiah(d decimal.Decimal) string {
	return "Rp " + humanize.Comma(d.Round(0).IntPart())
}
