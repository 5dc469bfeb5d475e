package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the unique channel between an unordered pair of users
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MemberOne uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_member_one" json:"member_one"`
	MemberTwo uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_member_two" json:"member_two"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasMember reports whether id occupies either slot
func (c *Conversation) HasMember(id uuid.UUID) bool {
	return c.MemberOne == id || c.MemberTwo == id
}

// ChatMessage is one entry of a conversation log. Deleted is a soft tombstone.
type ChatMessage struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_chat_messages_conversation_created,priority:1" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null" json:"sender_id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	FileID         *uuid.UUID `gorm:"type:uuid" json:"file_id"`
	Deleted        bool       `gorm:"not null;default:false" json:"deleted"`
	CreatedAt      time.Time  `gorm:"not null;index:idx_chat_messages_conversation_created,priority:2" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ConversationWithMembers is the get-or-create result
type ConversationWithMembers struct {
	Conversation Conversation
	MemberOne    PubUser
	MemberTwo    PubUser
}
