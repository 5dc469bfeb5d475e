package domain

import (
	"github.com/google/uuid"
)

// Board owns its columns, cards, card attachments and member rows
type Board struct {
	BaseModel
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index:idx_boards_creator_id" json:"creator_id"`
}

func (Board) TableName() string {
	return "boards"
}

// BoardMember grants a user access to a board. The creator is always a member.
type BoardMember struct {
	BoardID uuid.UUID `gorm:"type:uuid;primaryKey" json:"board_id"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_board_members_user_id" json:"user_id"`
}

func (BoardMember) TableName() string {
	return "board_members"
}

// Column positions within a board are dense: {0..k-1}
type Column struct {
	BaseModel
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_columns_board_position,priority:1" json:"board_id"`
	Name     *string   `gorm:"type:varchar(255)" json:"name"`
	Position int       `gorm:"not null;index:idx_columns_board_position,priority:2" json:"position"`
}

func (Column) TableName() string {
	return "board_columns"
}

// Card positions within a column are dense: {0..m-1}
type Card struct {
	BaseModel
	ColumnID        uuid.UUID `gorm:"type:uuid;not null;index:idx_cards_column_position,priority:1" json:"column_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Description     *string   `gorm:"type:text" json:"description"`
	Position        int       `gorm:"not null;index:idx_cards_column_position,priority:2" json:"position"`
	CoverAttachment *string   `gorm:"type:varchar(512)" json:"cover_attachment"`
}

func (Card) TableName() string {
	return "column_cards"
}

type PubBoard struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type PubColumn struct {
	ID       uuid.UUID `json:"id"`
	Name     *string   `json:"name"`
	Position int       `json:"position"`
}

type PubCard struct {
	ID              uuid.UUID `json:"id"`
	ColumnID        uuid.UUID `json:"column_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	Position        int       `json:"position"`
	CoverAttachment *string   `json:"cover_attachment"`
}

func (b *Board) Public() PubBoard {
	return PubBoard{ID: b.ID, Name: b.Name}
}

func (c *Column) Public() PubColumn {
	return PubColumn{ID: c.ID, Name: c.Name, Position: c.Position}
}

func (c *Card) Public() PubCard {
	return PubCard{
		ID:              c.ID,
		ColumnID:        c.ColumnID,
		Name:            c.Name,
		Description:     c.Description,
		Position:        c.Position,
		CoverAttachment: c.CoverAttachment,
	}
}

// BoardInfo is a board with its columns sorted by position and its cards
// sorted by (column_id, position)
type BoardInfo struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Columns []PubColumn `json:"columns"`
	Cards   []PubCard   `json:"cards"`
}
