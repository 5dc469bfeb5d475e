package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	handshakeWait  = 10 * time.Second
)

// Handshake is the first frame a client sends
type Handshake struct {
	Token          string `json:"token"`
	ConversationID string `json:"conversation_id"`
}

// ClientMessage is every frame after the handshake. SenderID is accepted
// for compatibility but the authenticated member always wins.
type ClientMessage struct {
	Content        string `json:"content"`
	SenderID       string `json:"sender_id"`
	ConversationID string `json:"conversation_id"`
	CreatedAt      int64  `json:"created_at"`
}

// Serve runs one upgraded connection until it closes. Handshake failures
// close the socket without a reply.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)

	client, conversationID, ok := h.handshake(ctx, conn)
	if !ok {
		_ = conn.Close()
		return
	}

	h.Register(client)
	h.Attach(client.MemberID, conversationID)
	h.logger.Info("Client joined conversation",
		zap.String("member_id", client.MemberID.String()),
		zap.String("conversation_id", conversationID.String()))

	go h.writePump(conn, client)
	h.readPump(ctx, conn, client, conversationID)
}

func (h *Hub) handshake(ctx context.Context, conn *websocket.Conn) (*Client, uuid.UUID, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	kind, raw, err := conn.ReadMessage()
	if err != nil || kind != websocket.TextMessage {
		return nil, uuid.Nil, false
	}

	var hs Handshake
	if err := json.Unmarshal(raw, &hs); err != nil {
		h.logger.Debug("Malformed handshake", zap.Error(err))
		return nil, uuid.Nil, false
	}
	user, err := h.auth.Verify(ctx, hs.Token)
	if err != nil {
		h.logger.Debug("Handshake rejected", zap.Error(err))
		return nil, uuid.Nil, false
	}
	conversationID, err := uuid.Parse(hs.ConversationID)
	if err != nil {
		return nil, uuid.Nil, false
	}
	if _, err := h.authorizer.Authorize(ctx, user.ID, conversationID); err != nil {
		h.logger.Debug("Handshake for foreign conversation",
			zap.String("member_id", user.ID.String()),
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		return nil, uuid.Nil, false
	}
	return newClient(user.ID, h.sendBuffer), conversationID, true
}

func (h *Hub) readPump(ctx context.Context, conn *websocket.Conn, client *Client, conversationID uuid.UUID) {
	defer func() {
		h.Unregister(client)
		_ = conn.Close()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	current := conversationID
	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket read error", zap.String("member_id", client.MemberID.String()), zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		var in ClientMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			h.logger.Warn("Failed to parse client message", zap.Error(err))
			continue
		}
		if in.Content == "" {
			continue
		}

		target := current
		if in.ConversationID != "" {
			parsed, err := uuid.Parse(in.ConversationID)
			if err != nil {
				continue
			}
			target = parsed
		}
		if target != current {
			if _, err := h.authorizer.Authorize(ctx, client.MemberID, target); err != nil {
				h.logger.Warn("Dropping message for foreign conversation",
					zap.String("member_id", client.MemberID.String()),
					zap.String("conversation_id", target.String()))
				continue
			}
			h.Attach(client.MemberID, target)
			current = target
		}

		now := time.Now().UTC()
		msg := &domain.ChatMessage{
			ID:             uuid.New(),
			ConversationID: target,
			SenderID:       client.MemberID,
			Content:        in.Content,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		h.Send(ctx, msg)
		if h.persister != nil {
			if err := h.persister.Enqueue(ctx, msg); err != nil {
				h.logger.Warn("Message not queued for persistence", zap.String("message_id", msg.ID.String()), zap.Error(err))
				return
			}
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Debug("WebSocket write failed", zap.String("member_id", client.MemberID.String()), zap.Error(err))
				return
			}
		case <-client.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
