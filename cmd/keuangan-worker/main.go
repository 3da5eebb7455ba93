package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"keuangan/internal/amqp"
	"keuangan/internal/cli"
	"keuangan/internal/log"
	gsheet "keuangan/internal/sheets/google"
	"keuangan/internal/storage"
	"keuangan/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Configuration validation failed:", err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker, nil)
	logger.Info("Starting keuangan-worker")

	if !cfg.HasSheets() {
		cli.Fatal(logger, "Worker needs a spreadsheet", fmt.Errorf("GOOGLE_SPREADSHEET_ID is not set"))
	}

	// Rows appended by the sqlite backend wait here until pushed
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize SQLite repository", err)
	}
	defer repo.Close()

	remote, err := gsheet.New(context.Background(), gsheet.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, relying on the periodic sweep", log.FieldError, err)
		} else {
			consumer = client
			defer client.Close()
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	ctx, done := cli.GracefulShutdown(context.Background(), logger, 30*time.Second, nil)

	runner := worker.NewRunner(worker.NewSyncWorker(repo, remote, cfg.SyncBatchSize), consumer, cfg.SyncInterval).
		WithPull(func(ctx context.Context) error {
			return worker.PullTables(ctx, remote, repo, cfg.LedgerTable, cfg.HoldsTable)
		})
	if err := runner.Run(ctx); err != nil {
		logger.Error("Worker stopped", log.FieldError, err)
	}

	if ctx.Err() != nil {
		<-done
	}
	logger.Info("keuangan-worker stopped")
}
