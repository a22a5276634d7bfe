package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/product-inventory/internal/config"
	"github.com/tuanvumaihuynh/product-inventory/internal/log"
	"github.com/tuanvumaihuynh/product-inventory/internal/storage/db"
)

type Config struct {
	Log      config.Log
	Postgres config.Postgres
}

func main() {
	time.Local = time.UTC

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	upCmd := newUpCmd()

	root := &cobra.Command{
		Use:           "inv-migrate",
		Short:         "Manage the product inventory database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          upCmd.RunE,
	}

	root.AddCommand(
		upCmd,
		newDownCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, logger *slog.Logger, m *db.Migrator) error {
				logger.InfoContext(ctx, "starting database migration")
				if err := m.Up(ctx); err != nil {
					return err
				}
				logger.InfoContext(ctx, "database migration completed successfully")
				return nil
			})
		},
	}
}

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, logger *slog.Logger, m *db.Migrator) error {
				if err := m.Down(ctx); err != nil {
					return err
				}
				logger.InfoContext(ctx, "rolled back latest migration")
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, _ *slog.Logger, m *db.Migrator) error {
				return m.Status(ctx)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, _ *slog.Logger, m *db.Migrator) error {
				version, err := m.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
				return nil
			})
		},
	}
}

func withMigrator(ctx context.Context, fn func(context.Context, *slog.Logger, *db.Migrator) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	m, err := db.NewMigrator(pgxPool)
	if err != nil {
		return fmt.Errorf("error creating migrator: %w", err)
	}
	defer m.Close()

	return fn(ctx, logger, m)
}
