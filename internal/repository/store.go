package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/domain"
)

const defaultMaxAttempts = 3

// Store bundles every repository over one gorm handle. Inside WithTx the
// handle is the transaction, so repositories obtained from the tx Store
// see uncommitted writes.
type Store struct {
	db          *gorm.DB
	maxAttempts int

	Users         UserRepository
	Boards        BoardRepository
	Columns       ColumnRepository
	Cards         CardRepository
	Files         FileRepository
	Attachments   AttachmentRepository
	Friends       FriendRepository
	Conversations ConversationRepository
	Messages      MessageRepository
}

// NewStore creates a Store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		maxAttempts:   defaultMaxAttempts,
		Users:         NewUserRepository(db),
		Boards:        NewBoardRepository(db),
		Columns:       NewColumnRepository(db),
		Cards:         NewCardRepository(db),
		Files:         NewFileRepository(db),
		Attachments:   NewAttachmentRepository(db),
		Friends:       NewFriendRepository(db),
		Conversations: NewConversationRepository(db),
		Messages:      NewMessageRepository(db),
	}
}

// DB exposes the underlying handle for health checks and collectors
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) txOptions() *sql.TxOptions {
	// sqlite serializes writers on its own and rejects explicit levels in some builds
	if s.db.Dialector != nil && s.db.Dialector.Name() == "sqlite" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

// WithTx runs fn in a serializable transaction. A serialization failure or
// deadlock rolls back and reruns fn, up to three attempts in total; fn must
// therefore not leak state from a failed attempt.
//
// The transaction ignores cancellation of ctx: once started it runs to
// completion even if the requesting client went away.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txStore := NewStore(tx)
			return fn(txStore)
		}, s.txOptions())
		if err == nil || !database.IsRetryable(err) {
			return err
		}
	}
	return err
}

// DeleteFileCascade removes a file row together with every card binding
// and nulls any card cover showing it. The blob is left to the caller.
func (s *Store) DeleteFileCascade(ctx context.Context, file *domain.File) error {
	if err := s.Attachments.DeleteByFile(ctx, file.ID); err != nil {
		return err
	}
	if err := s.Cards.ClearCover(ctx, file.Name); err != nil {
		return err
	}
	return s.Files.Delete(ctx, file.ID)
}
