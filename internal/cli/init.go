// Package cli provides common process initialization shared by cmd/cashflow
// and cmd/cashflow-worker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cashflow/internal/amqp"
	"cashflow/internal/backend"
	"cashflow/internal/config"
	"cashflow/internal/core"
	"cashflow/internal/log"
)

// LoadEnvFile loads a .env file for local development.
// A missing file is ignored; a malformed one is reported.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from path and the environment and validates it.
func LoadAndValidateConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the logger described by cfg and sets it as the default.
// debug forces debug level.
func SetupLogger(cfg *config.Config, debug bool, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debug {
		level = log.LevelDebug
	}

	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Format:    cfg.LogFormat,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger, nil
}

// OpenStore creates the configured ledger store.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*backend.Result, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateStore(ctx, backendCfg)
}

// ConnectAMQP dials the broker when AMQP_URL is set. It returns nil without
// error when messaging is disabled.
func ConnectAMQP(cfg *config.Config, logger *log.Logger) (*amqp.Client, error) {
	if cfg.AMQPURL == "" {
		logger.Debug("AMQP disabled - no AMQP_URL provided")
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, err
	}
	logger.WithComponent(log.ComponentAMQP).Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client, nil
}

// CurrentPeriod returns the period for now, month as its upper-case English name.
func CurrentPeriod(now time.Time) core.Period {
	return core.Period{Month: strings.ToUpper(now.Month().String()), Year: now.Year()}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
