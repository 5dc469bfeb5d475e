package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector refreshes the row-count gauges periodically
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start collects once immediately, then every interval until Stop
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

func (c *BusinessMetricsCollector) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tables := []struct {
		name string
		set  func(int64)
	}{
		{"boards", c.metrics.SetBoardsTotal},
		{"users", c.metrics.SetUsersTotal},
		{"conversations", c.metrics.SetConversationsTotal},
	}

	for _, t := range tables {
		var count int64
		if err := c.db.WithContext(ctx).Table(t.name).Count(&count).Error; err != nil {
			c.logger.Error("Failed to count rows", zap.String("table", t.name), zap.Error(err))
			continue
		}
		t.set(count)
	}
}
