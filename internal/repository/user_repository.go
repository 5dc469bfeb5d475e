package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int64, error)

	FindByFriendCode(ctx context.Context, code string) (*domain.User, error)
	FriendCodeInUse(ctx context.Context, code string, now time.Time) (bool, error)
	SetFriendCode(ctx context.Context, id uuid.UUID, code *string, expiresAt *time.Time) error
}

type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	var users []*domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsByUsernameOrEmail ignores the row with id exclude so profile updates
// can keep their own name
func (r *userRepositoryImpl) ExistsByUsernameOrEmail(ctx context.Context, username, email string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", username, email, exclude).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}

func (r *userRepositoryImpl) FindByFriendCode(ctx context.Context, code string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("friend_code = ?", code).
		Order("friend_code_expires_at DESC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FriendCodeInUse reports whether an unexpired code equal to code exists
func (r *userRepositoryImpl) FriendCodeInUse(ctx context.Context, code string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("friend_code = ? AND friend_code_expires_at > ?", code, now).
		Count(&count).Error
	return count > 0, err
}

// SetFriendCode writes both columns together; nil clears them
func (r *userRepositoryImpl) SetFriendCode(ctx context.Context, id uuid.UUID, code *string, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"friend_code":            code,
			"friend_code_expires_at": expiresAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
