package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/position"
)

// CardRepository defines the interface for card data access
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindInBoard(ctx context.Context, boardID, cardID uuid.UUID) (*domain.Card, error)
	FindInColumn(ctx context.Context, columnID, cardID uuid.UUID) (*domain.Card, error)
	ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error)
	IDsByColumns(ctx context.Context, columnIDs []uuid.UUID) ([]uuid.UUID, error)
	CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error)
	Shift(ctx context.Context, columnID uuid.UUID, r position.Range) error
	UpdateContent(ctx context.Context, card *domain.Card) error
	Place(ctx context.Context, cardID, columnID uuid.UUID, pos int) error
	SetCover(ctx context.Context, cardID uuid.UUID, cover *string) error
	ClearCover(ctx context.Context, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByColumns(ctx context.Context, columnIDs []uuid.UUID) error
}

type cardRepositoryImpl struct {
	db *gorm.DB
}

// NewCardRepository creates a new instance of CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepositoryImpl{db: db}
}

func (r *cardRepositoryImpl) Create(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// FindInBoard finds a card through its column; cards of other boards are not found
func (r *cardRepositoryImpl) FindInBoard(ctx context.Context, boardID, cardID uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN board_columns ON board_columns.id = column_cards.column_id").
		Where("column_cards.id = ? AND board_columns.board_id = ?", cardID, boardID).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepositoryImpl) FindInColumn(ctx context.Context, columnID, cardID uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	err := r.db.WithContext(ctx).
		Where("id = ? AND column_id = ?", cardID, columnID).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepositoryImpl) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*domain.Card, error) {
	var cards []*domain.Card
	err := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("position ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByBoard returns the cards of every column ordered by (column_id, position)
func (r *cardRepositoryImpl) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Card, error) {
	var cards []*domain.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN board_columns ON board_columns.id = column_cards.column_id").
		Where("board_columns.board_id = ?", boardID).
		Order("column_cards.column_id ASC, column_cards.position ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepositoryImpl) IDsByColumns(ctx context.Context, columnIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(columnIDs) == 0 {
		return []uuid.UUID{}, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("column_id IN ?", columnIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *cardRepositoryImpl) CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Card{}).Where("column_id = ?", columnID).Count(&count).Error
	return int(count), err
}

// Shift applies r to every card of the column in one statement
func (r *cardRepositoryImpl) Shift(ctx context.Context, columnID uuid.UUID, rng position.Range) error {
	if rng.Empty() {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("column_id = ? AND position BETWEEN ? AND ?", columnID, rng.Lo, rng.Hi).
		Update("position", gorm.Expr("position + ?", rng.Delta)).Error
}

// UpdateContent writes name and description only
func (r *cardRepositoryImpl) UpdateContent(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).
		Model(card).
		Select("name", "description").
		Updates(card).Error
}

// Place moves the card row itself; neighbours are shifted separately
func (r *cardRepositoryImpl) Place(ctx context.Context, cardID, columnID uuid.UUID, pos int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("id = ?", cardID).
		Updates(map[string]interface{}{
			"column_id": columnID,
			"position":  pos,
		}).Error
}

func (r *cardRepositoryImpl) SetCover(ctx context.Context, cardID uuid.UUID, cover *string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("id = ?", cardID).
		Update("cover_attachment", cover).Error
}

// ClearCover nulls the cover of every card that shows the named file
func (r *cardRepositoryImpl) ClearCover(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("cover_attachment = ?", name).
		Update("cover_attachment", nil).Error
}

func (r *cardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Card{}).Error
}

func (r *cardRepositoryImpl) DeleteByColumns(ctx context.Context, columnIDs []uuid.UUID) error {
	if len(columnIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("column_id IN ?", columnIDs).Delete(&domain.Card{}).Error
}
