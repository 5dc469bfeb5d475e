package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ConnectionServer runs an upgraded chat connection to completion
type ConnectionServer interface {
	Serve(ctx context.Context, conn *websocket.Conn)
}

// WSHandler upgrades /chat_source/events; authentication happens in the
// first frame, not in HTTP headers
type WSHandler struct {
	hub      ConnectionServer
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWSHandler(hub ConnectionServer, allowedOrigins []string, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// HandleEvents godoc
// @Summary      채팅 WebSocket
// @Description  첫 프레임은 {"token","conversation_id"} 이어야 하며, 이후 프레임은 ClientMessage입니다
// @Tags         websocket
// @Success      101 {string} string "Switching Protocols"
// @Router       /chat_source/events [get]
func (h *WSHandler) HandleEvents(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}
	h.hub.Serve(c.Request.Context(), conn)
}
