package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-chat-api/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", 7*24*time.Hour)
	user := domain.PubUser{ID: uuid.New(), Username: "alice"}

	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.User.ID)
	assert.Equal(t, "alice", claims.User.Username)
	assert.Equal(t, int64(7*24*3600), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user := domain.PubUser{ID: uuid.New(), Username: "alice"}
	token, err := m.Issue(user)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenManager("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrPasswordMismatch)
}
