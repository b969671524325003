// Package admin implements the flexrent-admin command line: schema
// migrations and demo data seeding against the API database.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/config"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
	"github.com/flexrent/flexrent/internal/server/seed"
)

// Opener opens a database handle for a DSN.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

// Deps are the collaborators shared by all commands.
type Deps struct {
	Open    Opener
	Manager repomanager.RepositoryManager
	Logger  logging.Logger
	// DefaultDSN is used when --dsn is not given.
	DefaultDSN func() string
}

// DefaultDeps opens Postgres through pgx and falls back to the API server
// configuration for the DSN.
func DefaultDeps(open Opener) Deps {
	return Deps{
		Open:       open,
		Manager:    repomanager.NewPostgresRepositoryManager(),
		Logger:     logging.NewJSONLogger(os.Stderr, "info"),
		DefaultDSN: func() string { return config.LoadConfig().DatabaseDSN },
	}
}

func RootCmd(d Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "flexrent-admin",
		Short:         "FlexRent database administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("dsn", "", "PostgreSQL DSN (defaults to DATABASE_URL)")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrate.AddCommand(
		migrateCmd(d, "up", "Apply all pending migrations", d.Manager.RunMigrations),
		migrateCmd(d, "down", "Roll back the most recent migration", d.Manager.RollbackMigration),
		migrateCmd(d, "status", "Print applied and pending migrations", d.Manager.MigrationStatus),
	)

	root.AddCommand(migrate, seedCmd(d))
	return root
}

func migrateCmd(d Deps, use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, d, func(ctx context.Context, db *sql.DB) error {
				if err := run(ctx, db); err != nil {
					return fmt.Errorf("migrate %s: %w", use, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", use)
				return nil
			})
		},
	}
}

func seedCmd(d Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo tenant, landlord and financial history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrateFirst, _ := cmd.Flags().GetBool("migrate")
			return withDB(cmd, d, func(ctx context.Context, db *sql.DB) error {
				if migrateFirst {
					if err := d.Manager.RunMigrations(ctx, db); err != nil {
						return fmt.Errorf("migrate up: %w", err)
					}
				}
				if err := seed.NewSeeder(db, d.Manager, d.Logger).Run(ctx, seed.Demo()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed: done")
				return nil
			})
		},
	}
	cmd.Flags().Bool("migrate", false, "apply pending migrations before seeding")
	return cmd
}

func withDB(cmd *cobra.Command, d Deps, fn func(context.Context, *sql.DB) error) error {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" && d.DefaultDSN != nil {
		dsn = d.DefaultDSN()
	}
	if dsn == "" {
		return fmt.Errorf("no database DSN: pass --dsn or set DATABASE_URL")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := d.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer closeQuietly(db)

	return fn(ctx, db)
}

func closeQuietly(c io.Closer) { _ = c.Close() }
