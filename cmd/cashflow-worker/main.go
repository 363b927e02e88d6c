package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"cashflow/internal/cli"
	"cashflow/internal/core"
	"cashflow/internal/log"
	gsheet "cashflow/internal/sheets/google"
	"cashflow/internal/storage"
	"cashflow/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cashflow-worker:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgFile := flag.String("config", "", "YAML config file (environment variables override it)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Load .env file for local development (missing file is fine)
	if err := cli.LoadEnvFile(""); err != nil {
		return err
	}

	cfg, err := cli.LoadAndValidateConfig(*cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg, *debug, os.Stdout)
	if err != nil {
		return err
	}
	logger = logger.WithComponent(log.ComponentWorker)
	logger.Info("Starting cashflow-worker", log.FieldBackend, cfg.DataBackend)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	// Primary store the ledgers are read from
	source, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer source.Close()

	var sinks []worker.Sink

	if cfg.ArchiveDBPath != "" {
		archive, err := storage.NewSQLiteStore(cfg.ArchiveDBPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer archive.Close()
		sinks = append(sinks, worker.NewStoreSink("archive", archive))
		logger.Info("SQLite archive enabled", "path", cfg.ArchiveDBPath)
	}

	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		sinks = append(sinks, worker.NewSheetsSink(sheetsClient))
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	mirror := worker.NewMirrorWorker(source.Store, sinks...)

	// Catch up on the current and previous month in case messages were missed
	now := time.Now()
	startup := []core.Period{
		cli.CurrentPeriod(now.AddDate(0, -1, 0)),
		cli.CurrentPeriod(now),
	}
	if err := mirror.MirrorAll(ctx, startup); err != nil {
		logger.Error("Startup mirror failed", log.FieldError, err)
		// Don't exit - continue with normal operation
	}

	amqpClient, err := cli.ConnectAMQP(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer amqpClient.Close()

	err = amqpClient.ConsumeLedgerChanges(ctx, mirror.HandleChange)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("message consumption failed: %w", err)
	}

	logger.Info("Worker shutdown complete")
	return nil
}
