package job

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/storage"
)

// MockBlobStore is a mock implementation of storage.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Write(ctx context.Context, key string, r io.Reader) error {
	args := m.Called(ctx, key, r)
	return args.Error(0)
}

func (m *MockBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStore) List(ctx context.Context) ([]storage.BlobInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.BlobInfo), args.Error(1)
}

var now = time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *repository.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return repository.NewStore(db)
}

func newSweep(store *repository.Store, blobs storage.BlobStore) *OrphanSweep {
	j := NewOrphanSweep(store, blobs, 30*time.Minute, nil, zap.NewNop())
	j.now = func() time.Time { return now }
	return j
}

func createFile(t *testing.T, store *repository.Store, name string, private bool, age time.Duration) *domain.File {
	t.Helper()
	f := &domain.File{Name: name, OwnerID: uuid.New(), Private: private}
	f.CreatedAt = now.Add(-age)
	f.UpdatedAt = f.CreatedAt
	require.NoError(t, store.Files.Create(context.Background(), f))
	return f
}

func TestOrphanSweep_RemovesRowWithoutBlob(t *testing.T) {
	// Given
	ctx := context.Background()
	store := setupStore(t)
	orphan := createFile(t, store, uuid.NewString()+"-lost.png", false, time.Hour)
	healthy := createFile(t, store, uuid.NewString()+"-ok.png", true, time.Hour)
	fresh := createFile(t, store, uuid.NewString()+"-uploading.png", false, time.Minute)

	card := &domain.Card{ColumnID: uuid.New(), Name: "task", CoverAttachment: &orphan.Name}
	require.NoError(t, store.DB().Create(card).Error)
	require.NoError(t, store.Attachments.Create(ctx, &domain.CardAttachment{CardID: card.ID, FileID: orphan.ID}))

	blobs := new(MockBlobStore)
	blobs.On("Exists", mock.Anything, orphan.BlobKey()).Return(false, nil)
	blobs.On("Exists", mock.Anything, healthy.BlobKey()).Return(true, nil)
	blobs.On("List", mock.Anything).Return([]storage.BlobInfo{}, nil)

	// When
	result, err := newSweep(store, blobs).Sweep(ctx)

	// Then
	require.NoError(t, err)
	assert.Equal(t, SweepResult{RowsRemoved: 1}, result)
	blobs.AssertExpectations(t)
	blobs.AssertNotCalled(t, "Exists", mock.Anything, fresh.BlobKey())

	_, err = store.Files.FindByID(ctx, orphan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Files.FindByID(ctx, healthy.ID)
	assert.NoError(t, err)

	attached, err := store.Attachments.ListFilesByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	var reloaded domain.Card
	require.NoError(t, store.DB().First(&reloaded, "id = ?", card.ID).Error)
	assert.Nil(t, reloaded.CoverAttachment)
}

func TestOrphanSweep_RemovesBlobWithoutRow(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	known := createFile(t, store, uuid.NewString()+"-kept.txt", true, time.Minute)

	strayKey := uuid.NewString() + "-stray.txt"
	youngKey := uuid.NewString() + "-young.txt"

	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return([]storage.BlobInfo{
		{Key: known.BlobKey(), ModTime: now.Add(-time.Hour)},
		{Key: strayKey, ModTime: now.Add(-time.Hour)},
		{Key: youngKey, ModTime: now.Add(-time.Minute)},
	}, nil)
	blobs.On("Remove", mock.Anything, strayKey).Return(nil)

	result, err := newSweep(store, blobs).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{BlobsRemoved: 1}, result)
	blobs.AssertExpectations(t)
	blobs.AssertNumberOfCalls(t, "Remove", 1)
}

func TestOrphanSweep_FailuresAreCountedNotFatal(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	f := createFile(t, store, uuid.NewString()+"-a.txt", false, time.Hour)
	strayKey := uuid.NewString() + "-stray.txt"

	blobs := new(MockBlobStore)
	blobs.On("Exists", mock.Anything, f.BlobKey()).Return(false, errors.New("stat failed"))
	blobs.On("List", mock.Anything).Return([]storage.BlobInfo{{Key: strayKey, ModTime: now.Add(-time.Hour)}}, nil)
	blobs.On("Remove", mock.Anything, strayKey).Return(errors.New("permission denied"))

	result, err := newSweep(store, blobs).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Failed: 2}, result)
	_, err = store.Files.FindByID(ctx, f.ID)
	assert.NoError(t, err, "row must survive when the blob could not be checked")
}

func TestOrphanSweep_ListFailureAbortsPass(t *testing.T) {
	store := setupStore(t)
	blobs := new(MockBlobStore)
	blobs.On("List", mock.Anything).Return(nil, errors.New("bucket unavailable"))

	_, err := newSweep(store, blobs).Sweep(context.Background())
	assert.Error(t, err)
}

func TestOrphanSweep_AgainstLocalStore(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	stray := uuid.NewString() + "-stray.txt"
	require.NoError(t, blobs.Write(ctx, stray, strings.NewReader("x")))

	// A just-written blob is inside the grace period
	j := NewOrphanSweep(store, blobs, time.Hour, nil, zap.NewNop())
	result, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.BlobsRemoved)

	j.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	result, err = j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BlobsRemoved)

	exists, err := blobs.Exists(ctx, stray)
	require.NoError(t, err)
	assert.False(t, exists)
}
