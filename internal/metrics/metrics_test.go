package metrics

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestMetricNames_SnakeCaseWithHelp(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	// vectors only show up once they have a child
	m.RecordHTTPRequest("GET", "/boards", 200, time.Millisecond)
	m.RecordDBQuery("select", "boards", time.Millisecond, errors.New("x"))
	m.RecordExternalAPICall("s3://bucket/key", "PUT", 500, time.Millisecond, nil)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	for _, f := range families {
		name := f.GetName()
		assert.True(t, strings.HasPrefix(name, namespace+"_"), name)
		assert.Equal(t, strings.ToLower(name), name)
		assert.NotContains(t, name, "-")
		assert.NotEmpty(t, f.GetHelp(), name)
	}
}

func TestBusinessCounters(t *testing.T) {
	m := getTestMetrics()

	m.IncrementBoardCreated()
	m.IncrementCardMoved()
	m.IncrementCardMoved()
	m.IncrementFriendCodeIssued()
	m.IncrementBlobRemoveFailure()

	assert.Equal(t, 1.0, getCounterValue(t, m.BoardCreatedTotal))
	assert.Equal(t, 2.0, getCounterValue(t, m.CardMovedTotal))
	assert.Equal(t, 1.0, getCounterValue(t, m.FriendCodesIssuedTotal))
	assert.Equal(t, 1.0, getCounterValue(t, m.BlobRemoveFailures))

	m.SetBoardsTotal(42)
	m.SetUsersTotal(7)
	m.SetConversationsTotal(3)
	assert.Equal(t, 42.0, getGaugeValue(t, m.BoardsTotal))
	assert.Equal(t, 7.0, getGaugeValue(t, m.UsersTotal))
	assert.Equal(t, 3.0, getGaugeValue(t, m.ConversationsTotal))
}

func TestHubMetrics(t *testing.T) {
	m := getTestMetrics()

	m.SetWSConnections(5)
	m.IncrementChatBroadcast()
	m.RecordChatPersist(nil)
	m.RecordChatPersist(errors.New("db down"))

	assert.Equal(t, 5.0, getGaugeValue(t, m.WSConnectionsActive))
	assert.Equal(t, 1.0, getCounterValue(t, m.ChatMessagesBroadcast))
	assert.Equal(t, 1.0, getCounterValue(t, m.ChatMessagesPersisted))
	assert.Equal(t, 1.0, getCounterValue(t, m.ChatMessagePersistFailure))
}

func TestUpdateDBStats(t *testing.T) {
	m := getTestMetrics()

	m.UpdateDBStats(sql.DBStats{MaxOpenConnections: 25, OpenConnections: 4, InUse: 1, Idle: 3, WaitCount: 9})
	m.UpdateDBStats(sql.DBStats{MaxOpenConnections: 25, OpenConnections: 4, InUse: 1, Idle: 3, WaitCount: 9})

	assert.Equal(t, 4.0, getGaugeValue(t, m.DBConnectionsOpen))
	assert.Equal(t, 25.0, getGaugeValue(t, m.DBConnectionsMax))
	assert.Equal(t, 9.0, getGaugeValue(t, m.DBConnectionWaitTotal), "cumulative stats are not double counted")
}

func TestCategorizeStatus(t *testing.T) {
	tests := map[int]string{101: "1xx", 200: "2xx", 204: "2xx", 302: "3xx", 401: "4xx", 422: "4xx", 500: "5xx", 0: "unknown"}
	for code, want := range tests {
		assert.Equal(t, want, categorizeStatus(code), "code %d", code)
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	assert.True(t, ShouldSkipEndpoint("/metrics"))
	assert.True(t, ShouldSkipEndpoint("/health"))
	assert.False(t, ShouldSkipEndpoint("/boards"))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, "not_found", getErrorType(404, nil))
	assert.Equal(t, "throttled", getErrorType(503, nil))
	assert.Equal(t, "server_error", getErrorType(500, nil))
	assert.Equal(t, "timeout", getErrorType(0, errors.New("context deadline exceeded")))
	assert.Equal(t, "network_error", getErrorType(0, errors.New("boom")))
	assert.Equal(t, "unknown", getErrorType(200, nil))
}

func TestNormalizeEndpoint(t *testing.T) {
	got := normalizeEndpoint("s3/PutObject/123e4567-e89b-12d3-a456-426614174000-a.png")
	assert.Equal(t, "s3/PutObject/{id}-a.png", got)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementBoardCreated()
		m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		m.SetWSConnections(1)
	})
}

func TestSafeExecuteRecoversPanic(t *testing.T) {
	m := getTestMetrics()
	assert.NotPanics(t, func() {
		m.safeExecute("test_panic", func() { panic("intentional") })
	})
}

func TestBusinessMetricsCollector_Collect(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, table := range []string{"boards", "users", "conversations"} {
		require.NoError(t, db.Exec("CREATE TABLE "+table+" (id TEXT PRIMARY KEY)").Error)
	}
	require.NoError(t, db.Exec("INSERT INTO boards (id) VALUES ('a'), ('b')").Error)
	require.NoError(t, db.Exec("INSERT INTO users (id) VALUES ('u')").Error)

	m := getTestMetrics()
	c := NewBusinessMetricsCollector(db, m, zap.NewNop(), time.Hour)
	c.collect()

	assert.Equal(t, 2.0, getGaugeValue(t, m.BoardsTotal))
	assert.Equal(t, 1.0, getGaugeValue(t, m.UsersTotal))
	assert.Equal(t, 0.0, getGaugeValue(t, m.ConversationsTotal))
}

func TestBusinessMetricsCollector_RecoversFromNilDB(t *testing.T) {
	c := &BusinessMetricsCollector{metrics: getTestMetrics(), logger: zap.NewNop()}
	assert.NotPanics(t, c.collect)
}

func TestBusinessMetricsCollector_StartStop(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	c := NewBusinessMetricsCollector(db, getTestMetrics(), zap.NewNop(), 10*time.Millisecond)
	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Stop()
	c.Stop()
}
