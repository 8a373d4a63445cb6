package main

import (
	"github.com/spf13/cobra"
	"github.com/tendant/nexuspoint/pkg/repository"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply pending embedded migrations in order.

With --down the schema is dropped by running every down migration.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back all migrations")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateDown {
		return repository.MigrateDown(cmd.Context(), db, logger)
	}

	applied, err := repository.Migrate(cmd.Context(), db, logger)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", "applied", applied)
	return nil
}
