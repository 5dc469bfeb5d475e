package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kanban-chat-api/internal/domain"
)

// BoardRepository defines the interface for board and membership data access
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	AddMember(ctx context.Context, boardID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error
	DeleteMembers(ctx context.Context, boardID uuid.UUID) error
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)
	ListMemberIDs(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error)
}

type boardRepositoryImpl struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepositoryImpl{db: db}
}

func (r *boardRepositoryImpl) Create(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *boardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepositoryImpl) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	var boards []*domain.Board
	err := r.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.board_id = boards.id").
		Where("board_members.user_id = ?", userID).
		Order("boards.created_at ASC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepositoryImpl) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&domain.Board{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *boardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Board{}).Error
}

func (r *boardRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Board{}).Count(&count).Error
	return count, err
}

// AddMember is idempotent: an existing membership is left untouched
func (r *boardRepositoryImpl) AddMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.BoardMember{BoardID: boardID, UserID: userID}).Error
}

func (r *boardRepositoryImpl) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&domain.BoardMember{}).Error
}

func (r *boardRepositoryImpl) DeleteMembers(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("board_id = ?", boardID).Delete(&domain.BoardMember{}).Error
}

func (r *boardRepositoryImpl) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *boardRepositoryImpl) ListMemberIDs(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.BoardMember{}).
		Where("board_id = ?", boardID).
		Pluck("user_id", &ids).Error
	return ids, err
}
