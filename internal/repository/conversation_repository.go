package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	FindByPair(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error)
	Count(ctx context.Context) (int64, error)
}

type conversationRepositoryImpl struct {
	db *gorm.DB
}

// NewConversationRepository creates a new instance of ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

func (r *conversationRepositoryImpl) Create(ctx context.Context, conv *domain.Conversation) error {
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByPair matches {a, b} regardless of slot order
func (r *conversationRepositoryImpl) FindByPair(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where("(member_one = ? AND member_two = ?) OR (member_one = ? AND member_two = ?)", a, b, b, a).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Conversation{}).Count(&count).Error
	return count, err
}
