// Package cmd wires the outlet-sales services into a cobra CLI.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"outlet-sales/config"
	"outlet-sales/storage"
	"outlet-sales/utils"
)

// app carries the state shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *utils.Logger

	logLevel string
	dbDriver string
	dbDSN    string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: utils.NewLogger()}

	root := &cobra.Command{
		Use:           "outlet-sales",
		Short:         "Predict retail outlet sales from item and outlet attributes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")
	flags.StringVar(&a.dbDriver, "db-driver", "", "database driver: postgres or sqlite (default from DB_DRIVER)")
	flags.StringVar(&a.dbDSN, "db-dsn", "", "database connection string (default built from env)")

	root.AddCommand(
		newLoadCmd(a),
		newTrainCmd(a),
		newPredictCmd(a),
		newPredictOneCmd(a),
		newHistoryCmd(a),
		newExportCmd(a),
		newSchemaCmd(a),
	)
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Load()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("db-driver") {
		a.cfg.DBDriver = a.dbDriver
	}
	a.logger.SetLevel(a.cfg.LogLevel)

	return a.cfg.Validate()
}

// openStore connects to the configured database and runs migrations.
func (a *app) openStore(ctx context.Context) (*storage.Store, error) {
	dsn := a.dbDSN
	if dsn == "" {
		dsn = a.cfg.DSN()
		a.logger.Debug("[db] Connecting to %s", a.cfg.Redacted())
	}

	retry := &utils.RetryConfig{
		MaxAttempts: a.cfg.ConnectRetries,
		BaseDelay:   500 * time.Millisecond,
		Logger:      a.logger,
	}
	s, err := storage.Open(ctx, a.cfg.DBDriver, dsn, retry)
	if err != nil {
		if a.cfg.DBDriver == config.DriverPostgres {
			a.logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		}
		return nil, fmt.Errorf("connect: %w", err)
	}
	return s, nil
}
