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
	"kanban-chat-api/internal/storage"
)

// ColumnService defines the interface for column business logic.
// Column positions of a board stay exactly {0..k-1} across every operation.
type ColumnService interface {
	CreateColumn(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateColumnRequest) (*domain.PubColumn, error)
	ListColumns(ctx context.Context, userID, boardID uuid.UUID) ([]domain.PubColumn, error)
	GetColumn(ctx context.Context, userID, boardID, columnID uuid.UUID) (*domain.PubColumn, error)
	UpdateColumn(ctx context.Context, userID, boardID, columnID uuid.UUID, req *dto.UpdateColumnRequest) (*domain.PubColumn, error)
	DeleteColumn(ctx context.Context, userID, boardID, columnID uuid.UUID) (*domain.PubColumn, error)
}

type columnServiceImpl struct {
	store   *repository.Store
	janitor *blobJanitor
	logger  *zap.Logger
}

// NewColumnService creates a new instance of ColumnService
func NewColumnService(store *repository.Store, blobs storage.BlobStore, m *metrics.Metrics, logger *zap.Logger) ColumnService {
	return &columnServiceImpl{
		store:   store,
		janitor: &blobJanitor{blobs: blobs, metrics: m, logger: logger},
		logger:  logger,
	}
}

// CreateColumn inserts at the requested index, clamped to the end
func (s *columnServiceImpl) CreateColumn(ctx context.Context, userID, boardID uuid.UUID, req *dto.CreateColumnRequest) (*domain.PubColumn, error) {
	if req.Position == nil {
		return nil, positionError(position.ErrNegativePosition)
	}

	var column *domain.Column
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		n, err := tx.Columns.CountByBoard(ctx, boardID)
		if err != nil {
			return err
		}
		pos, err := position.Clamp(n, *req.Position)
		if err != nil {
			return positionError(err)
		}
		shift, err := position.Insert(n, pos)
		if err != nil {
			return positionError(err)
		}
		if err := tx.Columns.Shift(ctx, boardID, shift); err != nil {
			return err
		}
		column = &domain.Column{BoardID: boardID, Name: req.Name, Position: pos}
		return tx.Columns.Create(ctx, column)
	})
	if err != nil {
		return nil, translate(err, "Board not found")
	}

	pub := column.Public()
	return &pub, nil
}

func (s *columnServiceImpl) ListColumns(ctx context.Context, userID, boardID uuid.UUID) ([]domain.PubColumn, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	columns, err := s.store.Columns.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, translate(err, "")
	}
	out := make([]domain.PubColumn, 0, len(columns))
	for _, c := range columns {
		out = append(out, c.Public())
	}
	return out, nil
}

func (s *columnServiceImpl) GetColumn(ctx context.Context, userID, boardID, columnID uuid.UUID) (*domain.PubColumn, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	column, err := s.store.Columns.FindInBoard(ctx, boardID, columnID)
	if err != nil {
		return nil, translate(err, "Column not found")
	}
	pub := column.Public()
	return &pub, nil
}

// UpdateColumn renames and/or moves a column. A move past the last index
// lands on the last index.
func (s *columnServiceImpl) UpdateColumn(ctx context.Context, userID, boardID, columnID uuid.UUID, req *dto.UpdateColumnRequest) (*domain.PubColumn, error) {
	var column *domain.Column
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		var err error
		column, err = tx.Columns.FindInBoard(ctx, boardID, columnID)
		if err != nil {
			return err
		}

		if req.Position != nil && *req.Position != column.Position {
			n, err := tx.Columns.CountByBoard(ctx, boardID)
			if err != nil {
				return err
			}
			shift, dest, err := position.Move(n, column.Position, *req.Position)
			if err != nil {
				return positionError(err)
			}
			if err := tx.Columns.Shift(ctx, boardID, shift); err != nil {
				return err
			}
			column.Position = dest
		}
		if req.Name != nil {
			column.Name = req.Name
		}
		return tx.Columns.Update(ctx, column)
	})
	if err != nil {
		return nil, translate(err, "Column not found")
	}

	pub := column.Public()
	return &pub, nil
}

// DeleteColumn drops the column's cards with their attachments and closes
// the gap in the board's column sequence
func (s *columnServiceImpl) DeleteColumn(ctx context.Context, userID, boardID, columnID uuid.UUID) (*domain.PubColumn, error) {
	var (
		column *domain.Column
		files  []*domain.File
	)
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		var err error
		column, err = tx.Columns.FindInBoard(ctx, boardID, columnID)
		if err != nil {
			return err
		}
		n, err := tx.Columns.CountByBoard(ctx, boardID)
		if err != nil {
			return err
		}

		cardIDs, err := tx.Cards.IDsByColumns(ctx, []uuid.UUID{column.ID})
		if err != nil {
			return err
		}
		files, err = dropAttachments(ctx, tx, cardIDs)
		if err != nil {
			return err
		}
		if err := tx.Cards.DeleteByColumns(ctx, []uuid.UUID{column.ID}); err != nil {
			return err
		}
		if err := tx.Columns.Delete(ctx, column.ID); err != nil {
			return err
		}

		shift, err := position.Delete(n, column.Position)
		if err != nil {
			return positionError(err)
		}
		return tx.Columns.Shift(ctx, boardID, shift)
	})
	if err != nil {
		return nil, translate(err, "Column not found")
	}

	s.janitor.purge(ctx, files)
	pub := column.Public()
	return &pub, nil
}
