package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/storage"
)

// translate maps a repository error onto the error model. AppErrors raised
// inside a transaction pass through untouched.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(notFound)
	}
	return response.NewInternalError("Database operation failed", err)
}

func positionError(err error) error {
	return response.NewInvalidRequestError("Invalid position", err.Error())
}

// requireMember loads the board and checks that userID may act on it
func requireMember(ctx context.Context, tx *repository.Store, boardID, userID uuid.UUID) (*domain.Board, error) {
	board, err := tx.Boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, translate(err, "Board not found")
	}
	ok, err := tx.Boards.IsMember(ctx, boardID, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	if !ok {
		return nil, response.NewUnauthorizedError("Not a member of this board")
	}
	return board, nil
}

func requireCreator(ctx context.Context, tx *repository.Store, boardID, userID uuid.UUID) (*domain.Board, error) {
	board, err := requireMember(ctx, tx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if board.CreatorID != userID {
		return nil, response.NewUnauthorizedError("Only the board creator can do this")
	}
	return board, nil
}

// dropAttachments deletes the attachment and file rows bound to cardIDs and
// returns the files so their blobs can be removed after commit. The cards
// themselves are left to the caller.
func dropAttachments(ctx context.Context, tx *repository.Store, cardIDs []uuid.UUID) ([]*domain.File, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	files, err := tx.Attachments.ListFilesByCards(ctx, cardIDs)
	if err != nil {
		return nil, err
	}
	if err := tx.Attachments.DeleteByCards(ctx, cardIDs); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	if err := tx.Files.DeleteByIDs(ctx, ids); err != nil {
		return nil, err
	}
	return files, nil
}

// blobJanitor removes blobs whose rows are already gone. Failures are
// logged and counted, never returned.
type blobJanitor struct {
	blobs   storage.BlobStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func (j *blobJanitor) purge(ctx context.Context, files []*domain.File) {
	ctx = context.WithoutCancel(ctx)
	for _, f := range files {
		err := j.blobs.Remove(ctx, f.BlobKey())
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrBlobNotFound):
			j.logger.Warn("Blob already absent",
				zap.String("file_name", f.Name),
				zap.String("file_id", f.ID.String()))
		default:
			j.metrics.IncrementBlobRemoveFailure()
			j.logger.Error("Failed to remove blob",
				zap.String("file_name", f.Name),
				zap.String("file_id", f.ID.String()),
				zap.Error(err))
		}
	}
}

// storedFileName is "{uuid}-{base}" where base is the last path element of
// the client supplied name
func storedFileName(original string) (string, error) {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(original), "\\", "/"))
	if base == "" || base == "." || base == "/" || base == ".." {
		return "", response.NewInvalidRequestError("File name is required", "")
	}
	return uuid.NewString() + "-" + base, nil
}
