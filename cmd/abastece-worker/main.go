package main

import (
	"context"
	"errors"
	"os"
	"time"

	"abastece/internal/amqp"
	"abastece/internal/analytics"
	"abastece/internal/cli"
	applog "abastece/internal/log"
	"abastece/internal/metrics"
	gsheet "abastece/internal/sheets/google"
	"abastece/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()
	bootstrap := cli.SetupLogger(applog.ComponentWorker, "info", "text")
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(applog.ComponentWorker, cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting abastece-worker")

	if err := cfg.ValidateSheetsMirror(); err != nil {
		logger.Error("The worker needs a Google Sheets mirror", applog.FieldError, err)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheets, err := gsheet.New(context.Background(), gsheet.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		FuelSheet:          cfg.GoogleSheetName,
		MaintenanceSheet:   cfg.GoogleMaintenanceSheet,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(repo, sheets, analytics.ParseLocale(cfg.Locale), cfg.SyncBatchSize, metrics.New())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return syncWorker.Run(gctx, cfg.SyncInterval)
	})

	// Without AMQP the periodic pending scan is the only trigger.
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(gctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		g.Go(func() error {
			return client.ConsumeLedgerChanges(gctx, syncWorker.HandleLedgerChanged)
		})
	} else {
		logger.Info("AMQP_URL not set, relying on periodic sync", "interval", cfg.SyncInterval)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
