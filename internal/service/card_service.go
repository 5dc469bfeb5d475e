package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/position"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/storage"
)

// CardService defines the interface for card business logic.
// Card positions of a column stay exactly {0..m-1} across every operation.
type CardService interface {
	CreateCard(ctx context.Context, userID, boardID, columnID uuid.UUID, req *dto.CreateCardRequest) (*domain.PubCard, error)
	ListCards(ctx context.Context, userID, boardID, columnID uuid.UUID) ([]domain.PubCard, error)
	GetCard(ctx context.Context, userID, boardID, cardID uuid.UUID) (*domain.PubCard, error)
	GetColumnCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (*domain.PubCard, error)
	UpdateCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*domain.PubCard, error)
	ReorderCard(ctx context.Context, userID, boardID, cardID, fromColumn, toColumn uuid.UUID, toPos int) (*domain.PubCard, error)
	DeleteCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (uuid.UUID, error)
}

type cardServiceImpl struct {
	store   *repository.Store
	janitor *blobJanitor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCardService creates a new instance of CardService
func NewCardService(store *repository.Store, blobs storage.BlobStore, m *metrics.Metrics, logger *zap.Logger) CardService {
	return &cardServiceImpl{
		store:   store,
		janitor: &blobJanitor{blobs: blobs, metrics: m, logger: logger},
		metrics: m,
		logger:  logger,
	}
}

func findColumn(ctx context.Context, tx *repository.Store, boardID, columnID uuid.UUID) (*domain.Column, error) {
	column, err := tx.Columns.FindInBoard(ctx, boardID, columnID)
	if err != nil {
		return nil, translate(err, "Column not found")
	}
	return column, nil
}

func (s *cardServiceImpl) CreateCard(ctx context.Context, userID, boardID, columnID uuid.UUID, req *dto.CreateCardRequest) (*domain.PubCard, error) {
	req.Normalize()
	if req.Name == "" {
		return nil, response.NewInvalidRequestError("Card name is required", "")
	}
	if req.Position == nil {
		return nil, positionError(position.ErrNegativePosition)
	}

	var card *domain.Card
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		if _, err := findColumn(ctx, tx, boardID, columnID); err != nil {
			return err
		}
		m, err := tx.Cards.CountByColumn(ctx, columnID)
		if err != nil {
			return err
		}
		pos, err := position.Clamp(m, *req.Position)
		if err != nil {
			return positionError(err)
		}
		shift, err := position.Insert(m, pos)
		if err != nil {
			return positionError(err)
		}
		if err := tx.Cards.Shift(ctx, columnID, shift); err != nil {
			return err
		}
		card = &domain.Card{
			ColumnID:    columnID,
			Name:        req.Name,
			Description: req.Description,
			Position:    pos,
		}
		return tx.Cards.Create(ctx, card)
	})
	if err != nil {
		return nil, translate(err, "Board not found")
	}

	pub := card.Public()
	return &pub, nil
}

func (s *cardServiceImpl) ListCards(ctx context.Context, userID, boardID, columnID uuid.UUID) ([]domain.PubCard, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	if _, err := findColumn(ctx, s.store, boardID, columnID); err != nil {
		return nil, err
	}
	cards, err := s.store.Cards.ListByColumn(ctx, columnID)
	if err != nil {
		return nil, translate(err, "")
	}
	out := make([]domain.PubCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Public())
	}
	return out, nil
}

func (s *cardServiceImpl) GetCard(ctx context.Context, userID, boardID, cardID uuid.UUID) (*domain.PubCard, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	card, err := s.store.Cards.FindInBoard(ctx, boardID, cardID)
	if err != nil {
		return nil, translate(err, "Card not found")
	}
	pub := card.Public()
	return &pub, nil
}

// GetColumnCard fetches a card that must sit in columnID of boardID
func (s *cardServiceImpl) GetColumnCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (*domain.PubCard, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	if _, err := findColumn(ctx, s.store, boardID, columnID); err != nil {
		return nil, err
	}
	card, err := s.store.Cards.FindInColumn(ctx, columnID, cardID)
	if err != nil {
		return nil, translate(err, "Card not found")
	}
	pub := card.Public()
	return &pub, nil
}

// UpdateCard replaces name and description; the position is left alone
func (s *cardServiceImpl) UpdateCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*domain.PubCard, error) {
	req.Normalize()
	if req.Name == "" {
		return nil, response.NewInvalidRequestError("Card name is required", "")
	}

	var card *domain.Card
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		if _, err := findColumn(ctx, tx, boardID, columnID); err != nil {
			return err
		}
		var err error
		card, err = tx.Cards.FindInColumn(ctx, columnID, cardID)
		if err != nil {
			return translate(err, "Card not found")
		}
		card.Name = req.Name
		card.Description = req.Description
		return tx.Cards.UpdateContent(ctx, card)
	})
	if err != nil {
		return nil, translate(err, "Card not found")
	}

	pub := card.Public()
	return &pub, nil
}

// ReorderCard moves a card to toPos of toColumn. fromColumn must name the
// card's current column and toColumn must belong to the same board.
func (s *cardServiceImpl) ReorderCard(ctx context.Context, userID, boardID, cardID, fromColumn, toColumn uuid.UUID, toPos int) (*domain.PubCard, error) {
	if toPos < 0 {
		return nil, positionError(position.ErrNegativePosition)
	}

	var card *domain.Card
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		var err error
		card, err = tx.Cards.FindInBoard(ctx, boardID, cardID)
		if err != nil {
			return translate(err, "Card not found")
		}
		if card.ColumnID != fromColumn {
			return response.NewInvalidRequestError("Card is not in the given column", fromColumn.String())
		}
		if _, err := findColumn(ctx, tx, boardID, toColumn); err != nil {
			return err
		}

		if fromColumn == toColumn {
			return s.moveWithin(ctx, tx, card, toPos)
		}
		return s.moveAcross(ctx, tx, card, toColumn, toPos)
	})
	if err != nil {
		return nil, translate(err, "Card not found")
	}

	s.metrics.IncrementCardMoved()
	pub := card.Public()
	return &pub, nil
}

func (s *cardServiceImpl) moveWithin(ctx context.Context, tx *repository.Store, card *domain.Card, toPos int) error {
	m, err := tx.Cards.CountByColumn(ctx, card.ColumnID)
	if err != nil {
		return err
	}
	shift, dest, err := position.Move(m, card.Position, toPos)
	if err != nil {
		return positionError(err)
	}
	if err := tx.Cards.Shift(ctx, card.ColumnID, shift); err != nil {
		return err
	}
	if err := tx.Cards.Place(ctx, card.ID, card.ColumnID, dest); err != nil {
		return err
	}
	card.Position = dest
	return nil
}

func (s *cardServiceImpl) moveAcross(ctx context.Context, tx *repository.Store, card *domain.Card, toColumn uuid.UUID, toPos int) error {
	srcN, err := tx.Cards.CountByColumn(ctx, card.ColumnID)
	if err != nil {
		return err
	}
	dstN, err := tx.Cards.CountByColumn(ctx, toColumn)
	if err != nil {
		return err
	}
	src, dst, dest, err := position.Transfer(srcN, card.Position, dstN, toPos)
	if err != nil {
		return positionError(err)
	}
	if err := tx.Cards.Shift(ctx, card.ColumnID, src); err != nil {
		return err
	}
	if err := tx.Cards.Shift(ctx, toColumn, dst); err != nil {
		return err
	}
	if err := tx.Cards.Place(ctx, card.ID, toColumn, dest); err != nil {
		return err
	}
	card.ColumnID = toColumn
	card.Position = dest
	return nil
}

// DeleteCard removes the card with its attachments and closes the gap in
// the column's card sequence
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (uuid.UUID, error) {
	var files []*domain.File
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		if _, err := findColumn(ctx, tx, boardID, columnID); err != nil {
			return err
		}
		card, err := tx.Cards.FindInColumn(ctx, columnID, cardID)
		if err != nil {
			return translate(err, "Card not found")
		}
		m, err := tx.Cards.CountByColumn(ctx, columnID)
		if err != nil {
			return err
		}

		files, err = dropAttachments(ctx, tx, []uuid.UUID{card.ID})
		if err != nil {
			return err
		}
		if err := tx.Cards.Delete(ctx, card.ID); err != nil {
			return err
		}
		shift, err := position.Delete(m, card.Position)
		if err != nil {
			return positionError(err)
		}
		return tx.Cards.Shift(ctx, columnID, shift)
	})
	if err != nil {
		return uuid.Nil, translate(err, "Card not found")
	}

	s.janitor.purge(ctx, files)
	return cardID, nil
}
