package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"keuangan/internal/core"
	"keuangan/internal/log"
)

type addFlags struct {
	date        string
	description string
	category    string
	kind        string
	amount      string
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	var f addFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append one record to the ledger",
		Long: `Append one record. The balance is computed from the latest ledger row.
With the memory backend the record only lives for this invocation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, f)
		},
	}
	cmd.Flags().StringVar(&f.date, "date", "", "record date, YYYY-MM-DD or dd/mm/yyyy (default today)")
	cmd.Flags().StringVar(&f.description, "description", "", "free text")
	cmd.Flags().StringVar(&f.category, "category", "", "Pemasukan or Pengeluaran (required)")
	cmd.Flags().StringVar(&f.kind, "type", "", "transaction type (required)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "non-negative amount (required)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (f addFlags) entry(today time.Time) (core.Entry, error) {
	var problems []error

	date := core.DateOf(today)
	if f.date != "" {
		d, err := core.ParseInputDate(f.date)
		if err != nil {
			problems = append(problems, fmt.Errorf("--date %q is not a date", f.date))
		}
		date = d
	}
	category, err := core.ParseCategory(f.category)
	if err != nil {
		problems = append(problems, fmt.Errorf("--category %q: %w", f.category, err))
	}
	amount, err := core.ParseAmount(f.amount)
	if err != nil {
		problems = append(problems, fmt.Errorf("--amount: %w", err))
	}
	if err := errors.Join(problems...); err != nil {
		return core.Entry{}, err
	}

	return core.Entry{
		Date:        date,
		Description: f.description,
		Category:    category,
		Type:        f.kind,
		Amount:      amount,
	}, nil
}

func runAdd(ctx context.Context, out, errOut io.Writer, opts *rootOptions, f addFlags) error {
	entry, err := f.entry(time.Now())
	if err != nil {
		return err
	}

	s, err := openSession(ctx, opts, log.ComponentCLI, errOut)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.ledger.Add(ctx, entry)
	if err != nil {
		return err
	}
	return writeRecord(out, rec)
}
