package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban-chat-api/internal/auth"
	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/storage"
)

type testEnv struct {
	store  *repository.Store
	blobs  *storage.LocalStore
	tokens *auth.TokenManager

	// ownerID is set by tests that drive a single board owner
	ownerID uuid.UUID

	boards        BoardService
	columns       ColumnService
	cards         CardService
	collaborators CollaboratorService
	attachments   AttachmentService
	files         FileService
	auth          AuthService
	friends       *friendServiceImpl
	conversations ConversationService
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func setupEnv(t *testing.T) *testEnv {
	store := repository.NewStore(setupTestDB(t))
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return &testEnv{
		store:         store,
		blobs:         blobs,
		tokens:        tokens,
		boards:        NewBoardService(store, blobs, nil, logger),
		columns:       NewColumnService(store, blobs, nil, logger),
		cards:         NewCardService(store, blobs, nil, logger),
		collaborators: NewCollaboratorService(store, logger),
		attachments:   NewAttachmentService(store, blobs, nil, logger),
		files:         NewFileService(store, blobs, nil, logger),
		auth:          NewAuthService(store, tokens, logger),
		friends:       NewFriendService(store, nil, logger).(*friendServiceImpl),
		conversations: NewConversationService(store, true, logger),
	}
}

func (e *testEnv) user(t *testing.T, name string) *domain.User {
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "unused"}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return u
}

// board creates a board owned by owner with one column per entry of cards,
// each column holding that many cards
func (e *testEnv) board(t *testing.T, owner uuid.UUID, cards ...int) (uuid.UUID, []uuid.UUID) {
	ctx := context.Background()
	boardID, err := e.boards.CreateBoard(ctx, owner, &dto.CreateBoardRequest{Name: "board"})
	require.NoError(t, err)

	columnIDs := make([]uuid.UUID, 0, len(cards))
	for i, n := range cards {
		pos := i
		col, err := e.columns.CreateColumn(ctx, owner, boardID, &dto.CreateColumnRequest{Position: &pos})
		require.NoError(t, err)
		columnIDs = append(columnIDs, col.ID)
		for j := 0; j < n; j++ {
			p := j
			_, err := e.cards.CreateCard(ctx, owner, boardID, col.ID, &dto.CreateCardRequest{Name: "card", Position: &p})
			require.NoError(t, err)
		}
	}
	return boardID, columnIDs
}

func (e *testEnv) cardPositions(t *testing.T, columnID uuid.UUID) []int {
	cards, err := e.store.Cards.ListByColumn(context.Background(), columnID)
	require.NoError(t, err)
	out := make([]int, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Position)
	}
	return out
}

func (e *testEnv) columnPositions(t *testing.T, boardID uuid.UUID) []int {
	cols, err := e.store.Columns.ListByBoard(context.Background(), boardID)
	require.NoError(t, err)
	out := make([]int, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Position)
	}
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}
