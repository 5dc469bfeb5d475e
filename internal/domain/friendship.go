package domain

import (
	"time"

	"github.com/google/uuid"
)

// Friendship is one directed edge. Edges always exist in pairs.
type Friendship struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FriendID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"friend_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// FriendCode is an issued, not yet redeemed code
type FriendCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
