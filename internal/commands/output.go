package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"keuangan/internal/core"
)

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func writeReport(out io.Writer, r core.Report, daily bool) error {
	tw := newTabWriter(out)
	fmt.Fprintf(tw, "Period\t%s - %s (%d days)\n", r.Window.Start, r.Window.End, r.Window.Days())
	fmt.Fprintf(tw, "%s\t%s\n", core.Income, core.FormatRupiah(r.TotalIncome))
	fmt.Fprintf(tw, "%s\t%s\n", core.Expense, core.FormatRupiah(r.TotalExpense))
	fmt.Fprintf(tw, "Balance\t%s\n", core.FormatRupiah(r.LatestBalance))
	fmt.Fprintf(tw, "Records\t%d\n", len(r.Records))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Expense by type")
	tw = newTabWriter(out)
	totals := r.ExpenseByType.Sorted()
	if len(totals) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, t := range totals {
		fmt.Fprintf(tw, "  %s\t%s\n", t.Type, core.FormatRupiah(t.Total))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !daily {
		return nil
	}
	fmt.Fprintln(out)
	tw = newTabWriter(out)
	fmt.Fprintf(tw, "Date\t%s\t%s\n", core.Income, core.Expense)
	for i, p := range r.DailyIncome {
		expense := "Rp 0"
		if i < len(r.DailyExpense) {
			expense = core.FormatRupiah(r.DailyExpense[i].Value)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date, core.FormatRupiah(p.Value), expense)
	}
	return tw.Flush()
}

func writeRecord(out io.Writer, rec core.Record) error {
	tw := newTabWriter(out)
	fmt.Fprintf(tw, "Date\t%s\n", rec.Date)
	fmt.Fprintf(tw, "Description\t%s\n", rec.Description)
	fmt.Fprintf(tw, "Category\t%s\n", rec.Category)
	fmt.Fprintf(tw, "Type\t%s\n", rec.Type)
	fmt.Fprintf(tw, "Amount\t%s\n", core.FormatRupiah(rec.Amount))
	fmt.Fprintf(tw, "Balance\t%s\n", core.FormatRupiah(rec.Balance))
	return tw.Flush()
}

// writeRows prints raw table rows with columns in name order.
func writeRows(out io.Writer, rows []core.RawRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "(no rows)")
		return err
	}
	var cols []string
	for _, row := range rows {
		for k := range row {
			if !slices.Contains(cols, k) {
				cols = append(cols, k)
			}
		}
	}
	slices.Sort(cols)

	tw := newTabWriter(out)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := row[c]; ok && v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
