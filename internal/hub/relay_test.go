package hub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kanban-chat-api/internal/domain"
)

func newRelayHub(t *testing.T, addr string) *Hub {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return newTestHub(Options{Relay: NewRedisRelay(client, zap.NewNop())})
}

func TestRedisRelay_FansOutAcrossHubs(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	left := newRelayHub(t, mr.Addr())
	right := newRelayHub(t, mr.Addr())
	require.NoError(t, left.RunRelay(ctx))
	require.NoError(t, right.RunRelay(ctx))

	conv := uuid.New()
	sender := newClient(uuid.New(), 4)
	peer := newClient(uuid.New(), 4)
	left.Register(sender)
	left.Attach(sender.MemberID, conv)
	right.Register(peer)
	right.Attach(peer.MemberID, conv)

	left.Send(ctx, &domain.ChatMessage{ID: uuid.New(), ConversationID: conv, SenderID: sender.MemberID, Content: "across"})

	assert.Equal(t, "across", receive(t, peer).Content)
	assert.Equal(t, "across", receive(t, sender).Content, "the publishing hub delivers through its own subscription")
}

func TestRedisRelay_FallsBackToLocalDelivery(t *testing.T) {
	mr := miniredis.RunT(t)
	h := newRelayHub(t, mr.Addr())
	mr.Close()

	conv := uuid.New()
	c := newClient(uuid.New(), 4)
	h.Register(c)
	h.Attach(c.MemberID, conv)

	h.Send(context.Background(), &domain.ChatMessage{ID: uuid.New(), ConversationID: conv, Content: "local"})

	select {
	case <-c.send:
	case <-time.After(5 * time.Second):
		t.Fatal("publish failure should fall back to local delivery")
	}
}
