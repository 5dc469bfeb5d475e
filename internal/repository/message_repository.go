package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

// MessageRepository defines the interface for the chat message log
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.ChatMessage) error
	Last(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type messageRepositoryImpl struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepositoryImpl{db: db}
}

// Append inserts msg; zero timestamps are set to now
func (r *messageRepositoryImpl) Append(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.UpdatedAt = msg.CreatedAt
	return r.db.WithContext(ctx).Create(msg).Error
}

// Last returns up to limit messages, newest first
func (r *messageRepositoryImpl) Last(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	var msgs []*domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
