package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/position"
)

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	Create(ctx context.Context, column *domain.Column) error
	FindInBoard(ctx context.Context, boardID, columnID uuid.UUID) (*domain.Column, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error)
	CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error)
	Shift(ctx context.Context, boardID uuid.UUID, r position.Range) error
	Update(ctx context.Context, column *domain.Column) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBoard(ctx context.Context, boardID uuid.UUID) error
}

type columnRepositoryImpl struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepositoryImpl{db: db}
}

func (r *columnRepositoryImpl) Create(ctx context.Context, column *domain.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

// FindInBoard returns gorm.ErrRecordNotFound when the column exists in another board
func (r *columnRepositoryImpl) FindInBoard(ctx context.Context, boardID, columnID uuid.UUID) (*domain.Column, error) {
	var column domain.Column
	err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", columnID, boardID).
		First(&column).Error
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *columnRepositoryImpl) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Column, error) {
	var columns []*domain.Column
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *columnRepositoryImpl) CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Column{}).Where("board_id = ?", boardID).Count(&count).Error
	return int(count), err
}

// Shift applies r to every column of the board in one statement
func (r *columnRepositoryImpl) Shift(ctx context.Context, boardID uuid.UUID, rng position.Range) error {
	if rng.Empty() {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Column{}).
		Where("board_id = ? AND position BETWEEN ? AND ?", boardID, rng.Lo, rng.Hi).
		Update("position", gorm.Expr("position + ?", rng.Delta)).Error
}

// Update writes name and position
func (r *columnRepositoryImpl) Update(ctx context.Context, column *domain.Column) error {
	return r.db.WithContext(ctx).
		Model(column).
		Select("name", "position").
		Updates(column).Error
}

func (r *columnRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Column{}).Error
}

func (r *columnRepositoryImpl) DeleteByBoard(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&domain.Column{}).Error
}
