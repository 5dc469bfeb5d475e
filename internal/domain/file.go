package domain

import (
	"path"

	"github.com/google/uuid"
)

// File is an uploaded blob. Name is globally unique and starts with a UUID.
type File struct {
	BaseModel
	Name    string    `gorm:"type:varchar(512);not null;uniqueIndex:uq_files_name" json:"name"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_files_owner_id" json:"owner_id"`
	Private bool      `gorm:"not null;default:false" json:"private"`
}

func (File) TableName() string {
	return "files"
}

// BlobKey is the blob path relative to the storage root:
// "<name>" for public files, "<owner>/<name>" for private ones.
func (f *File) BlobKey() string {
	if f.Private {
		return path.Join(f.OwnerID.String(), f.Name)
	}
	return f.Name
}

// CardAttachment binds a file to a card without owning it
type CardAttachment struct {
	CardID uuid.UUID `gorm:"type:uuid;primaryKey" json:"card_id"`
	FileID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_card_attachments_file_id" json:"file_id"`
}

func (CardAttachment) TableName() string {
	return "card_attachments"
}

// PubAttachment is what attachment listings return; URL is the file name
type PubAttachment struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}
