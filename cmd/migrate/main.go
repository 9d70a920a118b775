package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"pawcheck/internal/config"
	"pawcheck/internal/database"
	"pawcheck/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		logger.Get().Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the pawcheck Oracle schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	withMigrator := func(fn func(m *migrate.Migrate) error) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			db, err := database.NewMigrateOracleDB(cfg.GetDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := database.NewMigrator(cmd.Context(), db)
			if err != nil {
				return err
			}
			return fn(m)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(m *migrate.Migrate) error {
				return ignoreNoChange(m.Up())
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: withMigrator(func(m *migrate.Migrate) error {
				return ignoreNoChange(m.Down())
			}),
		},
		&cobra.Command{
			Use:   "steps N",
			Short: "Apply N migrations, or roll back when N is negative",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("steps must be an integer: %w", err)
				}
				return withMigrator(func(m *migrate.Migrate) error {
					return ignoreNoChange(m.Steps(n))
				})(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the recorded version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("version must be an integer: %w", err)
				}
				return withMigrator(func(m *migrate.Migrate) error {
					return m.Force(v)
				})(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: withMigrator(func(m *migrate.Migrate) error {
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(os.Stdout, "no migrations applied")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		},
	)
	return root
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Get().Info("No migrations to apply")
		return nil
	}
	if err == nil {
		logger.Get().Info("Migrations completed successfully")
	}
	return err
}
