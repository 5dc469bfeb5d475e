package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/storage"
)

// FileService handles standalone uploads outside any board
type FileService interface {
	Upload(ctx context.Context, ownerID uuid.UUID, filename, contentType string, private bool, body io.Reader) (*domain.File, error)
	Open(ctx context.Context, viewer *uuid.UUID, name string) (*domain.File, io.ReadCloser, error)
	Delete(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error)
	List(ctx context.Context, viewer *uuid.UUID) ([]*domain.File, error)
}

type fileServiceImpl struct {
	store   *repository.Store
	blobs   storage.BlobStore
	janitor *blobJanitor
	logger  *zap.Logger
}

func NewFileService(store *repository.Store, blobs storage.BlobStore, m *metrics.Metrics, logger *zap.Logger) FileService {
	return &fileServiceImpl{
		store:   store,
		blobs:   blobs,
		janitor: &blobJanitor{blobs: blobs, metrics: m, logger: logger},
		logger:  logger,
	}
}

func (s *fileServiceImpl) Upload(ctx context.Context, ownerID uuid.UUID, filename, contentType string, private bool, body io.Reader) (*domain.File, error) {
	if contentType == "" {
		return nil, response.NewAppError(response.ErrCodeInvalidFileType, "Missing content type", "")
	}
	name, err := storedFileName(filename)
	if err != nil {
		return nil, err
	}

	file := &domain.File{Name: name, OwnerID: ownerID, Private: private}
	if err := s.store.Files.Create(ctx, file); err != nil {
		return nil, translate(err, "")
	}

	if err := s.blobs.Write(ctx, file.BlobKey(), body); err != nil {
		s.logger.Error("Failed to write file blob",
			zap.String("file_name", file.Name),
			zap.Error(err))
		if rbErr := s.store.Files.Delete(context.WithoutCancel(ctx), file.ID); rbErr != nil {
			s.logger.Error("Failed to remove row of unwritten file",
				zap.String("file_id", file.ID.String()),
				zap.Error(rbErr))
		}
		return nil, response.NewInternalError("Failed to store file", err)
	}
	return file, nil
}

// Open returns the file and a reader over its blob. Private files are
// visible to their owner only.
func (s *fileServiceImpl) Open(ctx context.Context, viewer *uuid.UUID, name string) (*domain.File, io.ReadCloser, error) {
	file, err := s.store.Files.FindByName(ctx, name)
	if err != nil {
		return nil, nil, translate(err, "File not found")
	}
	if file.Private && (viewer == nil || *viewer != file.OwnerID) {
		return nil, nil, response.NewAppError(response.ErrCodeYouDoNotOwnThisFile, "This file is private", "")
	}

	rc, err := s.blobs.Open(ctx, file.BlobKey())
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, response.NewNotFoundError("File content not found")
		}
		return nil, nil, response.NewInternalError("Failed to open file", err)
	}
	return file, rc, nil
}

// Delete removes a file the caller owns. A file still bound to a card is
// detached first.
func (s *fileServiceImpl) Delete(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error) {
	var file *domain.File
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		file, err = tx.Files.FindByName(ctx, name)
		if err != nil {
			return translate(err, "File not found")
		}
		if file.OwnerID != userID {
			return response.NewAppError(response.ErrCodeYouDoNotOwnThisFile, "You do not own this file", "")
		}
		return tx.DeleteFileCascade(ctx, file)
	})
	if err != nil {
		return uuid.Nil, translate(err, "File not found")
	}

	s.janitor.purge(ctx, []*domain.File{file})
	return file.ID, nil
}

// List returns public files plus the viewer's own
func (s *fileServiceImpl) List(ctx context.Context, viewer *uuid.UUID) ([]*domain.File, error) {
	files, err := s.store.Files.ListVisible(ctx, viewer)
	if err != nil {
		return nil, translate(err, "")
	}
	return files, nil
}
