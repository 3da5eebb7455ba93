package commands

import (
	"github.com/spf13/cobra"

	"keuangan/internal/log"
)

func newHoldsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holds",
		Short: "Print the funds-on-hold table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts, log.ComponentCLI, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.ledger.Holds(cmd.Context())
			if err != nil {
				return err
			}
			return writeRows(cmd.OutOrStdout(), rows)
		},
	}
}
