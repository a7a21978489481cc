package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/variant-context-server/internal/config"
	"github.com/variant-context-server/internal/database"
	"github.com/variant-context-server/internal/setup"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply score-table schema migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back one migration instead of applying")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	manager, err := config.NewManager()
	if err != nil {
		return err
	}
	cfg := manager.GetConfig()
	log := setup.NewLogger(cfg.Logging)

	runner, err := database.NewMigrationRunner(manager.GetDatabaseURL(), cfg.Database.MigrationsPath, log)
	if err != nil {
		return fmt.Errorf("creating migration runner: %w", err)
	}
	defer runner.Close()

	if migrateDown {
		return runner.Down()
	}
	return runner.Up()
}
