package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats mirrors the connection pool statistics. WaitCount and
// WaitDuration are cumulative in sql.DBStats, so they are set, not added.
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	m.safeExecute("UpdateDBStats", func() {
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))
		m.DBConnectionWaitTotal.Set(float64(stats.WaitCount))
		m.DBConnectionWaitDuration.Set(stats.WaitDuration.Seconds())
	})
}

// RecordDBQuery records database query metrics
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())

		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
