package command

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/logger"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions.  migrate creates missing tables and
seed inserts the demo locations, restaurants, tables and menus.  Both
are safe to run repeatedly.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			logger.Info().Msg("schema up to date")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo catalog data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			if err := database.Seed(ctx, db, database.DefaultSeed()); err != nil {
				return err
			}
			logger.Info().Msg("demo data seeded")
			return nil
		})
	},
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg, err := config.LoadDB()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := database.Open(dbOptions(cfg))
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, db)
}

func init() {
	dbCmd.AddCommand(migrateCmd, seedCmd)
	rootCmd.AddCommand(dbCmd)
}
