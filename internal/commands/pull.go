package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"keuangan/internal/cli"
	"keuangan/internal/log"
	gsheet "keuangan/internal/sheets/google"
	"keuangan/internal/storage"
	"keuangan/internal/worker"
)

func newPullCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Copy the ledger and holds tables from Google Sheets into the local SQLite database",
		Long: `Copy the remote tables into SQLITE_DB_PATH so the sqlite backend sees rows
entered directly in the sheet. Rows not yet pushed by the worker are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := cli.LoadAndValidateConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.HasSheets() {
				return errors.New("pull needs GOOGLE_SPREADSHEET_ID")
			}
			logger := cli.SetupLogger(cfg, log.ComponentCLI, cmd.ErrOrStderr())

			remote, err := gsheet.New(ctx, gsheet.Options{
				SpreadsheetID:      cfg.GoogleSpreadsheetID,
				ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
				ServiceAccountFile: cfg.GoogleServiceAccountFile,
			})
			if err != nil {
				return fmt.Errorf("google sheets client: %w", err)
			}
			repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.SQLiteDBPath, err)
			}
			defer repo.Close()

			if err := worker.PullTables(ctx, remote, repo, cfg.LedgerTable, cfg.HoldsTable); err != nil {
				return err
			}
			logger.InfoContext(ctx, "Pull complete", log.FieldOperation, log.OpSync)
			fmt.Fprintf(cmd.OutOrStdout(), "pulled %s and %s into %s\n", cfg.LedgerTable, cfg.HoldsTable, cfg.SQLiteDBPath)
			return nil
		},
	}
}
