package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keuangan/internal/cli"
	apphttp "keuangan/internal/http"
	"keuangan/internal/log"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, addr, origins)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$PORT)")
	cmd.Flags().StringSliceVar(&origins, "allowed-origin", nil, "CORS origin allowed to call the API (repeatable)")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, addr string, origins []string) error {
	s, err := openSession(ctx, opts, log.ComponentApp, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	if addr == "" {
		addr = ":" + s.cfg.Port
	}
	srv := apphttp.NewServer(addr, s.ledger, apphttp.Options{
		Logger:         s.logger,
		Ready:          s.backend.Ready,
		AllowedOrigins: origins,
	})

	_, done := cli.GracefulShutdown(ctx, s.logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	s.logger.Info("Starting keuangan server", "addr", addr, "backend", s.cfg.DataBackend)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	<-done
	s.logger.Info("Server stopped gracefully")
	return nil
}
