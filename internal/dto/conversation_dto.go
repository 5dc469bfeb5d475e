package dto

import (
	"kanban-chat-api/internal/domain"
)

// ConversationResponse is the (Conversation, PubUser, PubUser) triple
type ConversationResponse struct {
	Conversation domain.Conversation `json:"conversation"`
	MemberOne    domain.PubUser      `json:"member_one"`
	MemberTwo    domain.PubUser      `json:"member_two"`
}

func ToConversationResponse(c *domain.ConversationWithMembers) ConversationResponse {
	return ConversationResponse{
		Conversation: c.Conversation,
		MemberOne:    c.MemberOne,
		MemberTwo:    c.MemberTwo,
	}
}
