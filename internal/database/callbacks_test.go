package database

import (
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
)

type mockMetricsRecorder struct {
	mu      sync.Mutex
	queries []queryRecord
	dbStats []sql.DBStats
}

type queryRecord struct {
	operation string
	table     string
	duration  time.Duration
	err       error
}

func (m *mockMetricsRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, queryRecord{operation: operation, table: table, duration: duration, err: err})
}

func (m *mockMetricsRecorder) UpdateDBStats(stats sql.DBStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbStats = append(m.dbStats, stats)
}

func (m *mockMetricsRecorder) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = nil
}

func (m *mockMetricsRecorder) statsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dbStats)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func newUser(name string) *domain.User {
	return &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
}

func TestRegisterMetricsCallbacks_CRUD(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	user := newUser("alice")
	require.NoError(t, db.Create(user).Error)

	var found domain.User
	require.NoError(t, db.First(&found, "id = ?", user.ID).Error)
	require.NoError(t, db.Model(&found).Update("bio", "hi").Error)
	require.NoError(t, db.Delete(&found).Error)

	require.Len(t, recorder.queries, 4)
	for i, op := range []string{"insert", "select", "update", "delete"} {
		assert.Equal(t, op, recorder.queries[i].operation)
		assert.Equal(t, "users", recorder.queries[i].table)
		assert.GreaterOrEqual(t, recorder.queries[i].duration, time.Duration(0))
		assert.NoError(t, recorder.queries[i].err)
	}
}

func TestRegisterMetricsCallbacks_RecordsErrors(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	var missing domain.User
	err := db.First(&missing, "username = ?", "nobody").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.Len(t, recorder.queries, 1)
	assert.Equal(t, "select", recorder.queries[0].operation)
	assert.Error(t, recorder.queries[0].err)

	recorder.reset()
	require.NoError(t, db.Create(newUser("bob")).Error)
	err = db.Create(newUser("bob")).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "translated duplicate key")

	require.Len(t, recorder.queries, 2)
	assert.Error(t, recorder.queries[1].err)
}

func TestRegisterMetricsCallbacks_RawExec(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	require.NoError(t, db.Exec("UPDATE board_columns SET position = position + 1 WHERE position >= ?", 0).Error)

	require.Len(t, recorder.queries, 1)
	assert.Equal(t, "exec", recorder.queries[0].operation)
}

func TestRegisterMetricsCallbacks_TransactionRollback(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newUser("carol")).Error; err != nil {
			return err
		}
		return errors.New("forced rollback")
	})
	require.Error(t, err)

	assert.GreaterOrEqual(t, len(recorder.queries), 1)
	var count int64
	require.NoError(t, db.Model(&domain.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStartDBStatsCollector(t *testing.T) {
	db := setupTestDB(t)
	recorder := &mockMetricsRecorder{}

	done := StartDBStatsCollector(db, recorder, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return recorder.statsCalls() > 0 }, time.Second, 10*time.Millisecond)
	close(done)

	recorder.mu.Lock()
	last := recorder.dbStats[len(recorder.dbStats)-1]
	recorder.mu.Unlock()
	assert.GreaterOrEqual(t, last.OpenConnections, 0)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
