package database

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats sql.DBStats)
}

const startTimeKey = "metrics:start_time"

func markStart(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func recordAfter(recorder MetricsRecorder, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(start), db.Error)
	}
}

// RegisterMetricsCallbacks times every query, create, update, delete and raw exec
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	cb := db.Callback()

	if err := cb.Query().Before("gorm:query").Register("metrics:query_before", markStart); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:query_after", recordAfter(recorder, "select")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("metrics:create_before", markStart); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:create_after", recordAfter(recorder, "insert")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:update_before", markStart); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:update_after", recordAfter(recorder, "update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:delete_before", markStart); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("metrics:delete_after", recordAfter(recorder, "delete")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("metrics:raw_before", markStart); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("metrics:raw_after", recordAfter(recorder, "exec"))
}

// StartDBStatsCollector pushes connection pool stats every interval until
// the returned channel is closed.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
