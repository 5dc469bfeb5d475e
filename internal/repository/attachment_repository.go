package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

// AttachmentRepository defines the interface for card attachment data access
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.CardAttachment) error
	FindFile(ctx context.Context, cardID, fileID uuid.UUID) (*domain.File, error)
	ListFilesByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.File, error)
	ListFilesByCards(ctx context.Context, cardIDs []uuid.UUID) ([]*domain.File, error)
	Delete(ctx context.Context, cardID, fileID uuid.UUID) error
	DeleteByCards(ctx context.Context, cardIDs []uuid.UUID) error
	DeleteByFile(ctx context.Context, fileID uuid.UUID) error
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

func (r *attachmentRepositoryImpl) Create(ctx context.Context, attachment *domain.CardAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// FindFile returns the file only if it is attached to the card
func (r *attachmentRepositoryImpl) FindFile(ctx context.Context, cardID, fileID uuid.UUID) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).
		Joins("JOIN card_attachments ON card_attachments.file_id = files.id").
		Where("card_attachments.card_id = ? AND files.id = ?", cardID, fileID).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *attachmentRepositoryImpl) ListFilesByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.File, error) {
	return r.ListFilesByCards(ctx, []uuid.UUID{cardID})
}

func (r *attachmentRepositoryImpl) ListFilesByCards(ctx context.Context, cardIDs []uuid.UUID) ([]*domain.File, error) {
	if len(cardIDs) == 0 {
		return []*domain.File{}, nil
	}

	var files []*domain.File
	err := r.db.WithContext(ctx).
		Joins("JOIN card_attachments ON card_attachments.file_id = files.id").
		Where("card_attachments.card_id IN ?", cardIDs).
		Order("files.created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *attachmentRepositoryImpl) Delete(ctx context.Context, cardID, fileID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("card_id = ? AND file_id = ?", cardID, fileID).
		Delete(&domain.CardAttachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attachmentRepositoryImpl) DeleteByCards(ctx context.Context, cardIDs []uuid.UUID) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("card_id IN ?", cardIDs).Delete(&domain.CardAttachment{}).Error
}

func (r *attachmentRepositoryImpl) DeleteByFile(ctx context.Context, fileID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&domain.CardAttachment{}).Error
}
