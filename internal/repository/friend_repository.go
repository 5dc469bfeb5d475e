package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kanban-chat-api/internal/domain"
)

// FriendRepository defines the interface for the friendship graph
type FriendRepository interface {
	AddPair(ctx context.Context, a, b uuid.UUID) error
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
}

type friendRepositoryImpl struct {
	db *gorm.DB
}

// NewFriendRepository creates a new instance of FriendRepository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepositoryImpl{db: db}
}

// AddPair inserts both directed edges; existing edges are kept
func (r *friendRepositoryImpl) AddPair(ctx context.Context, a, b uuid.UUID) error {
	now := time.Now().UTC()
	edges := []domain.Friendship{
		{UserID: a, FriendID: b, CreatedAt: now},
		{UserID: b, FriendID: a, CreatedAt: now},
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edges).Error
}

func (r *friendRepositoryImpl) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

func (r *friendRepositoryImpl) ListFriends(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
