package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/metrics"
)

const (
	defaultPersistBuffer = 256
	persistTimeout       = 5 * time.Second
)

// MessageStore appends one message to a conversation log
type MessageStore interface {
	Append(ctx context.Context, msg *domain.ChatMessage) error
}

// Persister is the durability pipeline: a bounded queue drained by a single
// background writer. A full queue blocks the producer.
type Persister struct {
	queue   chan *domain.ChatMessage
	store   MessageStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPersister(store MessageStore, buffer int, m *metrics.Metrics, logger *zap.Logger) *Persister {
	if buffer <= 0 {
		buffer = defaultPersistBuffer
	}
	return &Persister{
		queue:   make(chan *domain.ChatMessage, buffer),
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// Enqueue waits for room in the queue or for ctx to end
func (p *Persister) Enqueue(ctx context.Context, msg *domain.ChatMessage) error {
	select {
	case p.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run writes queued messages until ctx is cancelled, then drains what is
// already queued before returning.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case msg := <-p.queue:
			p.persist(msg)
		case <-ctx.Done():
			p.drain()
			return
		}
	}
}

func (p *Persister) drain() {
	for {
		select {
		case msg := <-p.queue:
			p.persist(msg)
		default:
			return
		}
	}
}

func (p *Persister) persist(msg *domain.ChatMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := p.store.Append(ctx, msg)
	p.metrics.RecordChatPersist(err)
	if err != nil {
		p.logger.Error("Failed to persist chat message",
			zap.String("message_id", msg.ID.String()),
			zap.String("conversation_id", msg.ConversationID.String()),
			zap.Error(err))
	}
}
