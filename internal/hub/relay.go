package hub

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const channelPrefix = "conversation:"

// RedisRelay fans chat frames out through redis pub/sub so that every hub
// instance delivers to its own members.
type RedisRelay struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisRelay(client *redis.Client, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{client: client, logger: logger}
}

func (r *RedisRelay) Publish(ctx context.Context, conversationID uuid.UUID, payload []byte) error {
	return r.client.Publish(ctx, channelPrefix+conversationID.String(), payload).Err()
}

// Subscribe returns once the pattern subscription is confirmed. Messages are
// then delivered from a background goroutine until ctx ends.
func (r *RedisRelay) Subscribe(ctx context.Context, deliver func(conversationID uuid.UUID, payload []byte)) error {
	pubsub := r.client.PSubscribe(ctx, channelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				id, err := uuid.Parse(strings.TrimPrefix(msg.Channel, channelPrefix))
				if err != nil {
					r.logger.Warn("Ignoring relay message on unexpected channel", zap.String("channel", msg.Channel))
					continue
				}
				deliver(id, []byte(msg.Payload))
			}
		}
	}()
	return nil
}
