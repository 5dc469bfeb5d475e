package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
)

// CollaboratorService manages board membership. Only the creator may add
// or remove members and the creator can never be removed.
type CollaboratorService interface {
	AddCollaborator(ctx context.Context, userID, boardID, collaboratorID uuid.UUID) (uuid.UUID, error)
	RemoveCollaborator(ctx context.Context, userID, boardID, collaboratorID uuid.UUID) (uuid.UUID, error)
	ListCollaborators(ctx context.Context, userID, boardID uuid.UUID) ([]domain.PubUser, error)
}

type collaboratorServiceImpl struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewCollaboratorService(store *repository.Store, logger *zap.Logger) CollaboratorService {
	return &collaboratorServiceImpl{store: store, logger: logger}
}

// AddCollaborator is idempotent on an existing membership
func (s *collaboratorServiceImpl) AddCollaborator(ctx context.Context, userID, boardID, collaboratorID uuid.UUID) (uuid.UUID, error) {
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireCreator(ctx, tx, boardID, userID); err != nil {
			return err
		}
		if _, err := tx.Users.FindByID(ctx, collaboratorID); err != nil {
			return translateUser(err)
		}
		return tx.Boards.AddMember(ctx, boardID, collaboratorID)
	})
	if err != nil {
		return uuid.Nil, translate(err, "Board not found")
	}

	s.logger.Info("Collaborator added",
		zap.String("board_id", boardID.String()),
		zap.String("collaborator_id", collaboratorID.String()))
	return collaboratorID, nil
}

func (s *collaboratorServiceImpl) RemoveCollaborator(ctx context.Context, userID, boardID, collaboratorID uuid.UUID) (uuid.UUID, error) {
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		board, err := requireCreator(ctx, tx, boardID, userID)
		if err != nil {
			return err
		}
		if collaboratorID == board.CreatorID {
			return response.NewInvalidRequestError("The board creator cannot be removed", "")
		}
		return tx.Boards.RemoveMember(ctx, boardID, collaboratorID)
	})
	if err != nil {
		return uuid.Nil, translate(err, "Board not found")
	}
	return collaboratorID, nil
}

func (s *collaboratorServiceImpl) ListCollaborators(ctx context.Context, userID, boardID uuid.UUID) ([]domain.PubUser, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	ids, err := s.store.Boards.ListMemberIDs(ctx, boardID)
	if err != nil {
		return nil, translate(err, "")
	}
	users, err := s.store.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "")
	}
	out := make([]domain.PubUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}
