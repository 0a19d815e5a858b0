package cmd

import (
	"mealprep-backend/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := store.Migrate(e.db); err != nil {
		return err
	}
	e.logger.Info("database migrated", zap.String("driver", e.cfg.DatabaseDriver))
	return nil
}
