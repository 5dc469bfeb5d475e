package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. PasswordHash never leaves the process.
type User struct {
	BaseModel
	Username            string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_username" json:"username"`
	Email               string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	ProfileURL          *string    `gorm:"type:text" json:"profile_url"`
	Bio                 *string    `gorm:"type:text" json:"bio"`
	FriendCode          *string    `gorm:"type:varchar(9);index:idx_users_friend_code" json:"friend_code,omitempty"`
	FriendCodeExpiresAt *time.Time `gorm:"type:timestamp" json:"friend_code_expires_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PubUser is the public projection of a User
type PubUser struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	ProfileURL *string   `json:"profile_url"`
	Bio        *string   `json:"bio"`
}

// Public returns the public projection of u
func (u *User) Public() PubUser {
	return PubUser{
		ID:         u.ID,
		Username:   u.Username,
		ProfileURL: u.ProfileURL,
		Bio:        u.Bio,
	}
}
