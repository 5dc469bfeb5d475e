package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ConnectionCounter reports live realtime connections
type ConnectionCounter interface {
	ConnectionCount() int
}

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
	hub   ConnectionCounter
}

// NewHealthHandler creates a HealthHandler; redis may be nil when fan-out is disabled
func NewHealthHandler(db *gorm.DB, redis *redis.Client, hub ConnectionCounter) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		hub:   hub,
	}
}

// Health godoc
// @Summary      헬스 체크
// @Description  DB 연결 상태와 현재 WebSocket 연결 수를 반환합니다
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      503 {object} map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	connections := 0
	if h.hub != nil {
		connections = h.hub.ConnectionCount()
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":         "unavailable",
			"database":       "unreachable",
			"ws_connections": connections,
		})
		return
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":         "unavailable",
				"database":       "ok",
				"redis":          "unreachable",
				"ws_connections": connections,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"database":       "ok",
		"ws_connections": connections,
	})
}
