// Package commands holds the keuangan command line.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"keuangan/internal/backend"
	"keuangan/internal/cli"
	"keuangan/internal/config"
	"keuangan/internal/log"
	"keuangan/internal/services"
)

// Version is set at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "keuangan",
		Short:   "Cash book reports over a Google Sheets ledger",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file (default $CONFIG_FILE)")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newReportCommand(opts),
		newAddCommand(opts),
		newHoldsCommand(opts),
		newPullCommand(opts),
	)
	return rootCmd
}

// session is the ledger opened for one command invocation.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	backend *backend.BackendResult
	ledger  *services.LedgerService
}

func openSession(ctx context.Context, opts *rootOptions, component string, logOut io.Writer) (*session, error) {
	cfg, err := cli.LoadAndValidateConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := cli.SetupLogger(cfg, component, logOut)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", cfg.DataBackend, err)
	}

	writer := services.NewLedgerWriter(result.Sink, cfg.LedgerTable, cfg.LedgerTypes)
	return &session{
		cfg:     cfg,
		logger:  logger,
		backend: result,
		ledger:  services.NewLedgerService(result.Source, writer, cfg.LedgerTable, cfg.HoldsTable),
	}, nil
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("Backend cleanup failed", log.FieldError, err)
	}
}
