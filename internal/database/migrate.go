package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/database/migrations"
)

func setupGoose() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("pgx")
}

// Migrate applies every pending SQL migration embedded in the binary
func Migrate(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return MigrateSQL(ctx, sqlDB, logger)
}

func MigrateSQL(ctx context.Context, sqlDB *sql.DB, logger *zap.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}

	before, _ := goose.GetDBVersionContext(ctx, sqlDB)
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	after, _ := goose.GetDBVersionContext(ctx, sqlDB)

	logger.Info("Database migrations applied",
		zap.Int64("from_version", before),
		zap.Int64("to_version", after),
	)
	return nil
}

// MigrateDown rolls back the most recent migration
func MigrateDown(ctx context.Context, sqlDB *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, sqlDB, ".")
}

// MigrationStatus returns the current schema version
func MigrationStatus(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}
