package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

// modelInfo holds information about a domain model and its table name
type modelInfo struct {
	model     interface{}
	tableName string
}

func models() []modelInfo {
	return []modelInfo{
		{&domain.User{}, "users"},
		{&domain.Board{}, "boards"},
		{&domain.BoardMember{}, "board_members"},
		{&domain.Column{}, "board_columns"},
		{&domain.Card{}, "column_cards"},
		{&domain.File{}, "files"},
		{&domain.CardAttachment{}, "card_attachments"},
		{&domain.Friendship{}, "friendships"},
		{&domain.Conversation{}, "conversations"},
		{&domain.ChatMessage{}, "chat_messages"},
	}
}

// AutoMigrate creates tables and indexes from the domain structs.
// Production schemas come from the goose migrations; this is for
// sqlite test databases and local development.
func AutoMigrate(db *gorm.DB) error {
	all := models()
	list := make([]interface{}, 0, len(all))
	for _, m := range all {
		list = append(list, m.model)
	}

	if err := db.AutoMigrate(list...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}

// SafeAutoMigrate migrates model by model and logs which tables existed
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	all := models()

	logger.Info("Starting safe auto-migration", zap.Int("total_models", len(all)))

	for _, m := range all {
		tableExists := migrator.HasTable(m.model)

		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", tableExists),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}

		logger.Debug("Migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", tableExists),
		)
	}

	logger.Info("Safe auto-migration completed", zap.Int("tables_migrated", len(all)))
	return nil
}

// SafeAutoMigrateWithRetry runs SafeAutoMigrate with a linear backoff between attempts
func SafeAutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = SafeAutoMigrate(db, logger)
		if err == nil {
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}

	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
