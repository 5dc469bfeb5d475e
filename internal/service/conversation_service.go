package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
)

// LastMessagesLimit bounds the tail returned by LastMessages
const LastMessagesLimit = 100

// ConversationService persists the one conversation per unordered user pair
// and its message log
type ConversationService interface {
	GetOrCreate(ctx context.Context, callerID, a, b uuid.UUID) (*domain.ConversationWithMembers, error)
	Find(ctx context.Context, callerID, a, b uuid.UUID) (*domain.ConversationWithMembers, error)
	// Authorize returns the conversation if userID is one of its members
	Authorize(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error)
	LastMessages(ctx context.Context, callerID, conversationID uuid.UUID) ([]*domain.ChatMessage, error)
	Append(ctx context.Context, msg *domain.ChatMessage) error
}

type conversationServiceImpl struct {
	store             *repository.Store
	requireFriendship bool
	logger            *zap.Logger
}

// NewConversationService creates a ConversationService. With
// requireFriendship only friends may open a conversation.
func NewConversationService(store *repository.Store, requireFriendship bool, logger *zap.Logger) ConversationService {
	return &conversationServiceImpl{
		store:             store,
		requireFriendship: requireFriendship,
		logger:            logger,
	}
}

func (s *conversationServiceImpl) checkPair(ctx context.Context, callerID, a, b uuid.UUID) error {
	if a == b {
		return response.NewInvalidRequestError("A conversation needs two different users", "")
	}
	if callerID != a && callerID != b {
		return response.NewUnauthorizedError("Not a party of this conversation")
	}
	if !s.requireFriendship {
		return nil
	}
	ok, err := s.store.Friends.AreFriends(ctx, a, b)
	if err != nil {
		return translate(err, "")
	}
	if !ok {
		return response.NewUnauthorizedError("Conversations are limited to friends")
	}
	return nil
}

// GetOrCreate returns the conversation of {a, b}, creating it with a in
// slot one when absent. A concurrent creator losing the unique index race
// reads the winner's row.
func (s *conversationServiceImpl) GetOrCreate(ctx context.Context, callerID, a, b uuid.UUID) (*domain.ConversationWithMembers, error) {
	if err := s.checkPair(ctx, callerID, a, b); err != nil {
		return nil, err
	}

	conv, err := s.store.Conversations.FindByPair(ctx, a, b)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv = &domain.Conversation{MemberOne: a, MemberTwo: b}
		err = s.store.Conversations.Create(ctx, conv)
		if database.IsUniqueViolation(err) {
			conv, err = s.store.Conversations.FindByPair(ctx, a, b)
		} else if err == nil {
			s.logger.Info("Conversation created",
				zap.String("conversation_id", conv.ID.String()),
				zap.String("member_one", a.String()),
				zap.String("member_two", b.String()))
		}
	}
	if err != nil {
		return nil, translate(err, "Conversation not found")
	}
	return s.withMembers(ctx, conv)
}

// Find looks the pair up without creating anything
func (s *conversationServiceImpl) Find(ctx context.Context, callerID, a, b uuid.UUID) (*domain.ConversationWithMembers, error) {
	if err := s.checkPair(ctx, callerID, a, b); err != nil {
		return nil, err
	}
	conv, err := s.store.Conversations.FindByPair(ctx, a, b)
	if err != nil {
		return nil, translate(err, "Conversation not found")
	}
	return s.withMembers(ctx, conv)
}

func (s *conversationServiceImpl) withMembers(ctx context.Context, conv *domain.Conversation) (*domain.ConversationWithMembers, error) {
	one, err := s.store.Users.FindByID(ctx, conv.MemberOne)
	if err != nil {
		return nil, translateUser(err)
	}
	two, err := s.store.Users.FindByID(ctx, conv.MemberTwo)
	if err != nil {
		return nil, translateUser(err)
	}
	return &domain.ConversationWithMembers{
		Conversation: *conv,
		MemberOne:    one.Public(),
		MemberTwo:    two.Public(),
	}, nil
}

func (s *conversationServiceImpl) Authorize(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.store.Conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, translate(err, "Conversation not found")
	}
	if !conv.HasMember(userID) {
		return nil, response.NewUnauthorizedError("Not a party of this conversation")
	}
	return conv, nil
}

// LastMessages returns up to LastMessagesLimit messages, newest first
func (s *conversationServiceImpl) LastMessages(ctx context.Context, callerID, conversationID uuid.UUID) ([]*domain.ChatMessage, error) {
	if _, err := s.Authorize(ctx, callerID, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.store.Messages.Last(ctx, conversationID, LastMessagesLimit)
	if err != nil {
		return nil, translate(err, "")
	}
	if messages == nil {
		messages = []*domain.ChatMessage{}
	}
	return messages, nil
}

func (s *conversationServiceImpl) Append(ctx context.Context, msg *domain.ChatMessage) error {
	if err := s.store.Messages.Append(ctx, msg); err != nil {
		return translate(err, "")
	}
	return nil
}
