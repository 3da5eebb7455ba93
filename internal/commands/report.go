package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"keuangan/internal/core"
	"keuangan/internal/log"
)

type reportFlags struct {
	start     string
	end       string
	withHolds bool
	daily     bool
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print totals, expense by type and daily series for a date range",
		Long: `Print the ledger report for [start, end]. Dates are YYYY-MM-DD or dd/mm/yyyy.
Missing bounds default to the first and last ledger date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, f)
		},
	}
	cmd.Flags().StringVar(&f.start, "start", "", "first day of the range")
	cmd.Flags().StringVar(&f.end, "end", "", "last day of the range")
	cmd.Flags().BoolVar(&f.withHolds, "holds", false, "also print funds on hold")
	cmd.Flags().BoolVar(&f.daily, "daily", true, "print the daily income and expense series")
	return cmd
}

func parseWindowFlags(start, end string) (core.Date, core.Date, error) {
	var s, e core.Date
	var err error
	if start != "" {
		if s, err = core.ParseInputDate(start); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("--start %q is not a date", start)
		}
	}
	if end != "" {
		if e, err = core.ParseInputDate(end); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("--end %q is not a date", end)
		}
	}
	return s, e, nil
}

func runReport(ctx context.Context, out, errOut io.Writer, opts *rootOptions, f reportFlags) error {
	start, end, err := parseWindowFlags(f.start, f.end)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, opts, log.ComponentCLI, errOut)
	if err != nil {
		return err
	}
	defer s.Close()

	var (
		report core.Report
		holds  []core.RawRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, err = s.ledger.Report(gctx, start, end)
		return err
	})
	if f.withHolds {
		g.Go(func() error {
			var err error
			holds, err = s.ledger.Holds(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeReport(out, report, f.daily); err != nil {
		return err
	}
	if f.withHolds {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Funds on hold")
		return writeRows(out, holds)
	}
	return nil
}
