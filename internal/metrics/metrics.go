package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	namespace = "kanban_chat"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing, so callers never need to guard.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBConnectionsOpen        prometheus.Gauge
	DBConnectionsInUse       prometheus.Gauge
	DBConnectionsIdle        prometheus.Gauge
	DBConnectionsMax         prometheus.Gauge
	DBConnectionWaitTotal    prometheus.Gauge
	DBConnectionWaitDuration prometheus.Gauge
	DBQueryDuration          *prometheus.HistogramVec
	DBQueryErrors            *prometheus.CounterVec

	// External API metrics (S3)
	ExternalAPIRequestDuration *prometheus.HistogramVec
	ExternalAPIRequestsTotal   *prometheus.CounterVec
	ExternalAPIErrors          *prometheus.CounterVec

	// Business metrics
	BoardsTotal            prometheus.Gauge
	UsersTotal             prometheus.Gauge
	ConversationsTotal     prometheus.Gauge
	BoardCreatedTotal      prometheus.Counter
	CardMovedTotal         prometheus.Counter
	FriendCodesIssuedTotal prometheus.Counter
	BlobRemoveFailures     prometheus.Counter
	OrphansSweptTotal      *prometheus.CounterVec

	// Realtime hub metrics
	WSConnectionsActive       prometheus.Gauge
	ChatMessagesBroadcast     prometheus.Counter
	ChatMessagesPersisted     prometheus.Counter
	ChatMessagePersistFailure prometheus.Counter

	logger *zap.Logger
}

// New creates and registers all metrics with the default registry
func New(logger *zap.Logger) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, logger)
}

// NewWithRegistry creates and registers all metrics with a custom registry
func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	factory := promauto.With(registerer)

	if logger == nil {
		logger = zap.NewNop()
	}

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),

		DBConnectionsOpen:        gauge("db_connections_open", "Current number of open database connections"),
		DBConnectionsInUse:       gauge("db_connections_in_use", "Current number of in-use database connections"),
		DBConnectionsIdle:        gauge("db_connections_idle", "Current number of idle database connections"),
		DBConnectionsMax:         gauge("db_connections_max", "Maximum number of open database connections configured"),
		DBConnectionWaitTotal:    gauge("db_connection_wait_count", "Cumulative number of waits for a database connection"),
		DBConnectionWaitDuration: gauge("db_connection_wait_duration_seconds", "Cumulative time spent waiting for database connections"),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation", "table"},
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_query_errors_total",
				Help:      "Total number of database query errors",
			},
			[]string{"operation", "table"},
		),

		ExternalAPIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "external_api_request_duration_seconds",
				Help:      "External API request duration in seconds",
				Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "status"},
		),
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_api_requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		ExternalAPIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_api_errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"endpoint", "error_type"},
		),

		BoardsTotal:            gauge("boards_total", "Total number of boards"),
		UsersTotal:             gauge("users_total", "Total number of registered users"),
		ConversationsTotal:     gauge("conversations_total", "Total number of conversations"),
		BoardCreatedTotal:      counter("board_created_total", "Total number of board creation events"),
		CardMovedTotal:         counter("card_moved_total", "Total number of card reorder operations"),
		FriendCodesIssuedTotal: counter("friend_codes_issued_total", "Total number of friend codes issued"),
		BlobRemoveFailures:     counter("blob_remove_failures_total", "Total number of blobs that could not be removed after commit"),
		OrphansSweptTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orphans_swept_total",
				Help:      "Total number of orphaned file rows and blobs removed by the sweep",
			},
			[]string{"kind"},
		),

		WSConnectionsActive:       gauge("ws_connections_active", "Current number of registered websocket connections"),
		ChatMessagesBroadcast:     counter("chat_messages_broadcast_total", "Total number of chat messages fanned out"),
		ChatMessagesPersisted:     counter("chat_messages_persisted_total", "Total number of chat messages written to the database"),
		ChatMessagePersistFailure: counter("chat_message_persist_failures_total", "Total number of chat messages that failed to persist"),

		logger: logger,
	}
}

// safeExecute wraps metric operations with panic recovery
func (m *Metrics) safeExecute(operation string, fn func()) {
	if m == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation",
				zap.String("operation", operation),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
