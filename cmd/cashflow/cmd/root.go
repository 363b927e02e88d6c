// Package cmd provides CLI commands for cashflow.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cashflow/internal/cli"
	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/services"
)

// app holds the state shared by subcommands for one invocation.
type app struct {
	cfgFile string
	envFile string
	debug   bool
	month   string
	year    int

	logger  *log.Logger
	service *services.LedgerService
	cleanup []func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Monthly cash-flow ledger",
		Long: `cashflow keeps one ledger of signed entries per month.

Positive amounts are income, negative amounts are expenses. Every change is
written straight to the configured store (a JSON file per month by default).

Example:
  cashflow init --month JANVIER --year 2024
  cashflow add --month JANVIER --year 2024 Loyer -500
  cashflow show --month JANVIER --year 2024`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, args); err != nil {
				return errors.Join(err, a.close())
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&a.month, "month", "m", "", "ledger month (default: current month)")
	rootCmd.PersistentFlags().IntVarP(&a.year, "year", "y", 0, "ledger year (default: current year)")

	// Add subcommands
	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newShowCmd(a))

	// cobra skips PersistentPostRunE when RunE fails
	for _, sub := range rootCmd.Commands() {
		if sub.RunE != nil {
			sub.RunE = a.closeOnError(sub.RunE)
		}
	}

	return rootCmd, a
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := cli.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := cli.LoadAndValidateConfig(a.cfgFile)
	if err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg, a.debug, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger.WithComponent(log.ComponentCLI)

	ctx := log.NewContext(cmd.Context(), a.logger)
	cmd.SetContext(ctx)

	res, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	a.cleanup = append(a.cleanup, res.Close)

	// Messaging is optional: the ledger is saved locally either way.
	var publisher services.Publisher
	client, err := cli.ConnectAMQP(cfg, logger)
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change messages", "error", err)
	} else if client != nil {
		publisher = client
		a.cleanup = append(a.cleanup, client.Close)
	}

	a.service = services.NewLedgerService(res.Store, publisher, cfg.LedgerCacheSize, logger)
	return nil
}

func (a *app) closeOnError(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := run(cmd, args); err != nil {
			return errors.Join(err, a.close())
		}
		return nil
	}
}

func (a *app) close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.cleanup = nil
	return errors.Join(errs...)
}

// period resolves --month/--year, defaulting to the current month.
func (a *app) period() (core.Period, error) {
	now := cli.CurrentPeriod(time.Now())
	month, year := a.month, a.year
	if month == "" {
		month = now.Month
	}
	if year == 0 {
		year = now.Year
	}
	return core.NewPeriod(month, year)
}

func ctxOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
