package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/metrics"
)

const defaultSendBuffer = 256

// Authenticator resolves a handshake token to a user
type Authenticator interface {
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// ConversationAuthorizer checks that a member is a party of a conversation
type ConversationAuthorizer interface {
	Authorize(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error)
}

// Relay carries chat frames between hub instances sharing a broker.
// When set, Send publishes through it and local delivery happens on the
// subscription side.
type Relay interface {
	Publish(ctx context.Context, conversationID uuid.UUID, payload []byte) error
	Subscribe(ctx context.Context, deliver func(conversationID uuid.UUID, payload []byte)) error
}

type Options struct {
	SendBuffer int
	Relay      Relay
}

// Hub maps members to their single live client and conversations to the
// members attached to them. The two maps have separate locks; when both
// are held connMu is taken first, and neither is held across a channel send.
type Hub struct {
	connMu      sync.RWMutex
	connections map[uuid.UUID]*Client

	roomMu             sync.RWMutex
	conversations      map[uuid.UUID]map[uuid.UUID]struct{}
	memberConversation map[uuid.UUID]uuid.UUID

	auth       Authenticator
	authorizer ConversationAuthorizer
	persister  *Persister
	relay      Relay
	sendBuffer int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func New(auth Authenticator, authorizer ConversationAuthorizer, persister *Persister, opts Options, m *metrics.Metrics, logger *zap.Logger) *Hub {
	buffer := opts.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	return &Hub{
		connections:        make(map[uuid.UUID]*Client),
		conversations:      make(map[uuid.UUID]map[uuid.UUID]struct{}),
		memberConversation: make(map[uuid.UUID]uuid.UUID),
		auth:               auth,
		authorizer:         authorizer,
		persister:          persister,
		relay:              opts.Relay,
		sendBuffer:         buffer,
		metrics:            m,
		logger:             logger,
	}
}

// Client is the outbound sink of one connection. send is never closed;
// writers stop on done instead.
type Client struct {
	MemberID  uuid.UUID
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(memberID uuid.UUID, buffer int) *Client {
	return &Client{
		MemberID: memberID,
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
}

// Close asks the connection's writer to shut the socket down
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Done is closed once the client has been told to go away
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// enqueue never blocks; false means the buffer was full or the client is gone
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Register makes c the member's live client, closing any previous one
func (h *Hub) Register(c *Client) {
	h.connMu.Lock()
	prev := h.connections[c.MemberID]
	h.connections[c.MemberID] = c
	count := len(h.connections)
	h.connMu.Unlock()

	if prev != nil && prev != c {
		prev.Close()
		h.logger.Info("Replaced previous connection", zap.String("member_id", c.MemberID.String()))
	}
	h.metrics.SetWSConnections(count)
}

// Unregister removes c if it is still the member's live client and detaches
// the member from its conversation. A stale client is only closed.
func (h *Hub) Unregister(c *Client) {
	c.Close()

	// connMu stays held through leave so a reconnect cannot register and
	// attach in between and then lose its attachment
	h.connMu.Lock()
	current, ok := h.connections[c.MemberID]
	removed := ok && current == c
	if removed {
		delete(h.connections, c.MemberID)
		h.leave(c.MemberID)
	}
	count := len(h.connections)
	h.connMu.Unlock()

	if !removed {
		return
	}
	h.metrics.SetWSConnections(count)
	h.logger.Debug("Client unregistered", zap.String("member_id", c.MemberID.String()))
}

// Attach moves the member into conversationID, leaving any prior one
func (h *Hub) Attach(memberID, conversationID uuid.UUID) {
	h.roomMu.Lock()
	defer h.roomMu.Unlock()

	if prev, ok := h.memberConversation[memberID]; ok {
		if prev == conversationID {
			return
		}
		h.removeMemberLocked(prev, memberID)
	}
	members, ok := h.conversations[conversationID]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		h.conversations[conversationID] = members
	}
	members[memberID] = struct{}{}
	h.memberConversation[memberID] = conversationID
}

func (h *Hub) leave(memberID uuid.UUID) {
	h.roomMu.Lock()
	defer h.roomMu.Unlock()

	conversationID, ok := h.memberConversation[memberID]
	if !ok {
		return
	}
	delete(h.memberConversation, memberID)
	h.removeMemberLocked(conversationID, memberID)
}

func (h *Hub) removeMemberLocked(conversationID, memberID uuid.UUID) {
	members, ok := h.conversations[conversationID]
	if !ok {
		return
	}
	delete(members, memberID)
	if len(members) == 0 {
		delete(h.conversations, conversationID)
	}
}

// Send fans msg out to every member attached to its conversation
func (h *Hub) Send(ctx context.Context, msg *domain.ChatMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode chat frame", zap.Error(err))
		return
	}
	h.metrics.IncrementChatBroadcast()

	if h.relay != nil {
		err := h.relay.Publish(ctx, msg.ConversationID, payload)
		if err == nil {
			return
		}
		h.logger.Warn("Relay publish failed, delivering locally",
			zap.String("conversation_id", msg.ConversationID.String()),
			zap.Error(err))
	}
	h.deliver(msg.ConversationID, payload)
}

// deliver writes payload to the local members of a conversation and
// returns how many accepted it
func (h *Hub) deliver(conversationID uuid.UUID, payload []byte) int {
	h.roomMu.RLock()
	members := make([]uuid.UUID, 0, len(h.conversations[conversationID]))
	for id := range h.conversations[conversationID] {
		members = append(members, id)
	}
	h.roomMu.RUnlock()

	clients := make([]*Client, 0, len(members))
	h.connMu.RLock()
	for _, id := range members {
		if c, ok := h.connections[id]; ok {
			clients = append(clients, c)
		}
	}
	h.connMu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c.enqueue(payload) {
			delivered++
			continue
		}
		h.logger.Warn("Dropping slow or closed client",
			zap.String("member_id", c.MemberID.String()),
			zap.String("conversation_id", conversationID.String()))
		h.Unregister(c)
	}
	return delivered
}

// RunRelay subscribes the hub to its relay; a nil relay is a no-op
func (h *Hub) RunRelay(ctx context.Context) error {
	if h.relay == nil {
		return nil
	}
	return h.relay.Subscribe(ctx, func(conversationID uuid.UUID, payload []byte) {
		h.deliver(conversationID, payload)
	})
}

// ConnectionCount is the number of live members
func (h *Hub) ConnectionCount() int {
	h.connMu.RLock()
	defer h.connMu.RUnlock()
	return len(h.connections)
}

// Members returns the members currently attached to a conversation
func (h *Hub) Members(conversationID uuid.UUID) []uuid.UUID {
	h.roomMu.RLock()
	defer h.roomMu.RUnlock()
	members := make([]uuid.UUID, 0, len(h.conversations[conversationID]))
	for id := range h.conversations[conversationID] {
		members = append(members, id)
	}
	return members
}
