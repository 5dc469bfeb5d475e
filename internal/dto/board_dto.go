package dto

import (
	"strings"

	"github.com/google/uuid"
)

// CreateBoardRequest represents the request to create a board
type CreateBoardRequest struct {
	Name string `json:"name" binding:"required" example:"Sprint 12"`
}

func (r *CreateBoardRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateBoardRequest represents the request to rename a board
type UpdateBoardRequest struct {
	Name string `json:"name" binding:"required" example:"Sprint 12 (done)"`
}

func (r *UpdateBoardRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// IDResponse carries the id of the entity an operation touched
type IDResponse struct {
	ID uuid.UUID `json:"id" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
}

// CreateColumnRequest represents the request to add a column.
// @Description position past the end appends; a negative position is rejected
type CreateColumnRequest struct {
	Name     *string `json:"name,omitempty" example:"Todo"`
	Position *int    `json:"position" binding:"required" example:"0"`
}

// UpdateColumnRequest renames and/or moves a column
type UpdateColumnRequest struct {
	Name     *string `json:"name,omitempty" example:"Doing"`
	Position *int    `json:"position,omitempty" example:"1"`
}

// CreateCardRequest represents the request to add a card to a column
type CreateCardRequest struct {
	Name        string  `json:"name" binding:"required" example:"Write release notes"`
	Description *string `json:"description,omitempty" example:"Cover the API changes"`
	Position    *int    `json:"position" binding:"required" example:"0"`
}

func (r *CreateCardRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateCardRequest replaces a card's name and description; position is untouched
type UpdateCardRequest struct {
	Name        string  `json:"name" binding:"required" example:"Write release notes"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateCardRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// AddCollaboratorRequest names the user to add to a board
type AddCollaboratorRequest struct {
	UserID string `json:"user_id" binding:"required" example:"a1b2c3d4-e5f6-7890-abcd-ef1234567890"`
}
