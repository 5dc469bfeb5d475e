package dto

import "strings"

// RegisterRequest represents the request to create an account
// @Description Username and email are trimmed; the password needs at least 8 characters
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
}

// Normalize trims surrounding whitespace from username and email
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// LoginRequest represents the request to sign in
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// UpdateUserRequest represents a profile update. All fields are optional.
// @Description new_password is applied only together with a matching old_password
type UpdateUserRequest struct {
	Username    *string `json:"username,omitempty" example:"alice2"`
	ProfileURL  *string `json:"profile_url,omitempty" example:"https://example.com/alice.png"`
	Bio         *string `json:"bio,omitempty" example:"kanban enthusiast"`
	OldPassword *string `json:"old_password,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Username != nil {
		trimmed := strings.TrimSpace(*r.Username)
		r.Username = &trimmed
	}
}

// MessageResponse is a plain text acknowledgement
type MessageResponse struct {
	Message string `json:"message" example:"Logged out"`
}
