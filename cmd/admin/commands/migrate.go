package commands

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/printer"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|down|status>",
	Short: "Apply, roll back or inspect schema migrations",
	Long: `Manage the database schema.

  up     - create tables from the models, then apply every pending SQL migration
  down   - roll back the most recent SQL migration
  status - print the current SQL migration version`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger()

	sqlDB, err := db.DB()
	if err != nil {
		return printer.Error("Failed to get database handle", err.Error(), nil)
	}

	switch args[0] {
	case "up":
		printer.Step("Creating tables from models")
		if err := database.SafeAutoMigrate(db, logger); err != nil {
			return printer.Error("Auto migration failed", err.Error(), nil)
		}
		printer.Step("Applying SQL migrations")
		if err := database.MigrateSQL(ctx, sqlDB, logger); err != nil {
			return printer.Error("SQL migration failed", err.Error(), nil)
		}
	case "down":
		printer.Step("Rolling back the latest SQL migration")
		if err := database.MigrateDown(ctx, sqlDB); err != nil {
			return printer.Error("Rollback failed", err.Error(), nil)
		}
	}

	current, err := database.MigrationStatus(ctx, sqlDB)
	if err != nil {
		return printer.Error("Failed to read migration version", err.Error(), nil)
	}
	printer.Success("Schema at version %s", strconv.FormatInt(current, 10))
	return nil
}
