package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/storage"
)

// BoardService defines the interface for board business logic
type BoardService interface {
	CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (uuid.UUID, error)
	ListBoards(ctx context.Context, userID uuid.UUID) ([]domain.PubBoard, error)
	GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*domain.BoardInfo, error)
	UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (uuid.UUID, error)
	DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) (uuid.UUID, error)
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	store   *repository.Store
	janitor *blobJanitor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewBoardService creates a new instance of BoardService
func NewBoardService(store *repository.Store, blobs storage.BlobStore, m *metrics.Metrics, logger *zap.Logger) BoardService {
	return &boardServiceImpl{
		store:   store,
		janitor: &blobJanitor{blobs: blobs, metrics: m, logger: logger},
		metrics: m,
		logger:  logger,
	}
}

// CreateBoard creates a board and makes the caller its first member
func (s *boardServiceImpl) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (uuid.UUID, error) {
	req.Normalize()
	if req.Name == "" {
		return uuid.Nil, response.NewInvalidRequestError("Board name is required", "")
	}

	board := &domain.Board{Name: req.Name, CreatorID: userID}
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := tx.Boards.Create(ctx, board); err != nil {
			return err
		}
		return tx.Boards.AddMember(ctx, board.ID, userID)
	})
	if err != nil {
		s.logger.Error("Failed to create board", zap.String("user_id", userID.String()), zap.Error(err))
		return uuid.Nil, translate(err, "")
	}

	s.metrics.IncrementBoardCreated()
	s.logger.Info("Board created",
		zap.String("board_id", board.ID.String()),
		zap.String("user_id", userID.String()))
	return board.ID, nil
}

func (s *boardServiceImpl) ListBoards(ctx context.Context, userID uuid.UUID) ([]domain.PubBoard, error) {
	boards, err := s.store.Boards.ListByMember(ctx, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	out := make([]domain.PubBoard, 0, len(boards))
	for _, b := range boards {
		out = append(out, b.Public())
	}
	return out, nil
}

// GetBoard returns the board with its columns and cards read in one transaction
func (s *boardServiceImpl) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*domain.BoardInfo, error) {
	var info *domain.BoardInfo
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		board, err := requireMember(ctx, tx, boardID, userID)
		if err != nil {
			return err
		}
		columns, err := tx.Columns.ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}
		cards, err := tx.Cards.ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}

		info = &domain.BoardInfo{
			ID:      board.ID,
			Name:    board.Name,
			Columns: make([]domain.PubColumn, 0, len(columns)),
			Cards:   make([]domain.PubCard, 0, len(cards)),
		}
		for _, c := range columns {
			info.Columns = append(info.Columns, c.Public())
		}
		for _, c := range cards {
			info.Cards = append(info.Cards, c.Public())
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "Board not found")
	}
	return info, nil
}

func (s *boardServiceImpl) UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (uuid.UUID, error) {
	req.Normalize()
	if req.Name == "" {
		return uuid.Nil, response.NewInvalidRequestError("Board name is required", "")
	}
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireCreator(ctx, tx, boardID, userID); err != nil {
			return err
		}
		return tx.Boards.UpdateName(ctx, boardID, req.Name)
	})
	if err != nil {
		return uuid.Nil, translate(err, "Board not found")
	}
	return boardID, nil
}

// DeleteBoard walks the hierarchy top-down so every attached file is known
// before its row goes; the blobs are removed once the transaction commits.
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) (uuid.UUID, error) {
	var files []*domain.File
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireCreator(ctx, tx, boardID, userID); err != nil {
			return err
		}

		columns, err := tx.Columns.ListByBoard(ctx, boardID)
		if err != nil {
			return err
		}
		columnIDs := make([]uuid.UUID, 0, len(columns))
		for _, c := range columns {
			columnIDs = append(columnIDs, c.ID)
		}
		cardIDs, err := tx.Cards.IDsByColumns(ctx, columnIDs)
		if err != nil {
			return err
		}

		files, err = dropAttachments(ctx, tx, cardIDs)
		if err != nil {
			return err
		}
		if err := tx.Cards.DeleteByColumns(ctx, columnIDs); err != nil {
			return err
		}
		if err := tx.Columns.DeleteByBoard(ctx, boardID); err != nil {
			return err
		}
		if err := tx.Boards.DeleteMembers(ctx, boardID); err != nil {
			return err
		}
		return tx.Boards.Delete(ctx, boardID)
	})
	if err != nil {
		s.logger.Error("Failed to delete board", zap.String("board_id", boardID.String()), zap.Error(err))
		return uuid.Nil, translate(err, "Board not found")
	}

	s.janitor.purge(ctx, files)
	s.logger.Info("Board deleted",
		zap.String("board_id", boardID.String()),
		zap.Int("files_removed", len(files)))
	return boardID, nil
}
