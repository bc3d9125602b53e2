package migrate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxscribe/cmd/voxscribe/cmd/cliflags"
	"voxscribe/internal/app"
	"voxscribe/internal/app/logging"
	repomigrate "voxscribe/internal/app/repository/migrate"
)

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy every local history record to PostgreSQL",
	Long: `Copy every record of the local SQLite history to the hosted PostgreSQL store.

Records are upserted by id, so running the command twice is harmless.
Migrated records are removed from the local store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliflags.Config(cmd)
		if err != nil {
			return err
		}
		if cfg.Database.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is not set; nothing to migrate to")
		}

		logger := cliflags.Logger(cmd)
		defer logger.Sync()

		stores, cleanup, err := app.InitializeStores(cfg, logging.NewSlog(cfg.Log, os.Stderr))
		if err != nil {
			return err
		}
		defer cleanup()
		if err := stores.Hosted.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("hosted store unreachable: %w", err)
		}

		sum, err := repomigrate.MigrateToPostgres(cmd.Context(), stores.Local, stores.Hosted, logger)
		logger.Info("migration finished",
			zap.Int("users", sum.Users),
			zap.Int("migrated", sum.Migrated),
			zap.Int("failed", sum.Failed))
		if err != nil {
			return err
		}
		if sum.Failed > 0 {
			return fmt.Errorf("%d records could not be migrated", sum.Failed)
		}
		return nil
	},
}
