package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/storage"
)

// AttachmentService binds uploaded files to cards. Rows are committed
// before the blob is written and the blob is removed only after the rows
// are gone, so no visible state holds a dangling row or blob.
type AttachmentService interface {
	AddAttachment(ctx context.Context, userID, boardID, cardID uuid.UUID, filename string, body io.Reader) ([]domain.PubAttachment, error)
	ListAttachments(ctx context.Context, userID, boardID, cardID uuid.UUID) ([]domain.PubAttachment, error)
	RemoveAttachment(ctx context.Context, userID, boardID, cardID, fileID uuid.UUID) ([]domain.PubAttachment, error)
}

type attachmentServiceImpl struct {
	store   *repository.Store
	blobs   storage.BlobStore
	janitor *blobJanitor
	logger  *zap.Logger
}

// NewAttachmentService creates a new instance of AttachmentService
func NewAttachmentService(store *repository.Store, blobs storage.BlobStore, m *metrics.Metrics, logger *zap.Logger) AttachmentService {
	return &attachmentServiceImpl{
		store:   store,
		blobs:   blobs,
		janitor: &blobJanitor{blobs: blobs, metrics: m, logger: logger},
		logger:  logger,
	}
}

// AddAttachment stores body as a public file bound to the card. The first
// attachment of a card becomes its cover.
func (s *attachmentServiceImpl) AddAttachment(ctx context.Context, userID, boardID, cardID uuid.UUID, filename string, body io.Reader) ([]domain.PubAttachment, error) {
	name, err := storedFileName(filename)
	if err != nil {
		return nil, err
	}
	file := &domain.File{Name: name, OwnerID: userID, Private: false}

	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		card, err := tx.Cards.FindInBoard(ctx, boardID, cardID)
		if err != nil {
			return translate(err, "Card not found")
		}
		if err := tx.Files.Create(ctx, file); err != nil {
			return err
		}
		if err := tx.Attachments.Create(ctx, &domain.CardAttachment{CardID: card.ID, FileID: file.ID}); err != nil {
			return err
		}
		if card.CoverAttachment == nil {
			return tx.Cards.SetCover(ctx, card.ID, &name)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "Card not found")
	}

	if err := s.blobs.Write(ctx, file.BlobKey(), body); err != nil {
		s.logger.Error("Failed to write attachment blob, rolling back rows",
			zap.String("file_name", file.Name),
			zap.String("card_id", cardID.String()),
			zap.Error(err))
		if rbErr := s.store.WithTx(ctx, func(tx *repository.Store) error {
			return tx.DeleteFileCascade(ctx, file)
		}); rbErr != nil {
			s.logger.Error("Failed to remove rows of unwritten attachment",
				zap.String("file_id", file.ID.String()),
				zap.Error(rbErr))
		}
		return nil, response.NewInternalError("Failed to store attachment", err)
	}

	s.logger.Info("Attachment added",
		zap.String("card_id", cardID.String()),
		zap.String("file_name", file.Name))
	return s.list(ctx, cardID)
}

func (s *attachmentServiceImpl) ListAttachments(ctx context.Context, userID, boardID, cardID uuid.UUID) ([]domain.PubAttachment, error) {
	if _, err := requireMember(ctx, s.store, boardID, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.Cards.FindInBoard(ctx, boardID, cardID); err != nil {
		return nil, translate(err, "Card not found")
	}
	return s.list(ctx, cardID)
}

func (s *attachmentServiceImpl) list(ctx context.Context, cardID uuid.UUID) ([]domain.PubAttachment, error) {
	files, err := s.store.Attachments.ListFilesByCard(ctx, cardID)
	if err != nil {
		return nil, translate(err, "")
	}
	out := make([]domain.PubAttachment, 0, len(files))
	for _, f := range files {
		out = append(out, domain.PubAttachment{ID: f.ID, URL: f.Name})
	}
	return out, nil
}

// RemoveAttachment deletes the binding and the file, nulls the cover if it
// showed this file, and removes the blob after commit
func (s *attachmentServiceImpl) RemoveAttachment(ctx context.Context, userID, boardID, cardID, fileID uuid.UUID) ([]domain.PubAttachment, error) {
	var file *domain.File
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := requireMember(ctx, tx, boardID, userID); err != nil {
			return err
		}
		if _, err := tx.Cards.FindInBoard(ctx, boardID, cardID); err != nil {
			return translate(err, "Card not found")
		}
		var err error
		file, err = tx.Attachments.FindFile(ctx, cardID, fileID)
		if err != nil {
			return translate(err, "Attachment not found")
		}
		return tx.DeleteFileCascade(ctx, file)
	})
	if err != nil {
		return nil, translate(err, "Attachment not found")
	}

	s.janitor.purge(ctx, []*domain.File{file})
	return s.list(ctx, cardID)
}
