package dto

import (
	"time"

	"github.com/google/uuid"

	"kanban-chat-api/internal/domain"
)

// FileResponse describes a stored file
type FileResponse struct {
	ID        uuid.UUID `json:"id" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Name      string    `json:"name" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479-report.pdf"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Private   bool      `json:"private"`
	CreatedAt time.Time `json:"created_at"`
}

// ToFileResponse converts domain.File to FileResponse
func ToFileResponse(f *domain.File) FileResponse {
	return FileResponse{
		ID:        f.ID,
		Name:      f.Name,
		OwnerID:   f.OwnerID,
		Private:   f.Private,
		CreatedAt: f.CreatedAt,
	}
}

// ToFileResponses converts a slice, never returning nil
func ToFileResponses(files []*domain.File) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, ToFileResponse(f))
	}
	return out
}
