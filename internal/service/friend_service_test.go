package service

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-chat-api/internal/response"
)

var friendCodePattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)

// constReader yields the same byte forever
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

func TestFriendService_CodeRoundTrip(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")

	none, err := env.friends.GetCode(ctx, u1.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	issued, err := env.friends.GenerateCode(ctx, u1.ID)
	require.NoError(t, err)
	assert.Regexp(t, friendCodePattern, issued.Code)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), issued.ExpiresAt, time.Minute)

	current, err := env.friends.GetCode(ctx, u1.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, issued.Code, current.Code)

	friend, err := env.friends.Redeem(ctx, u2.ID, issued.Code)
	require.NoError(t, err)
	assert.Equal(t, u1.ID, friend.ID)

	ok, err := env.friends.AreFriends(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.friends.AreFriends(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := env.friends.ListFriends(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, u2.ID, list[0].ID)

	consumed, err := env.friends.GetCode(ctx, u1.ID)
	require.NoError(t, err)
	assert.Nil(t, consumed, "redeeming consumes the code")

	_, err = env.friends.Redeem(ctx, u2.ID, issued.Code)
	assertCode(t, err, response.ErrCodeInvalidRequest)
}

func TestFriendService_RedeemErrors(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")

	issued, err := env.friends.GenerateCode(ctx, u1.ID)
	require.NoError(t, err)

	t.Run("실패: 자기 자신의 코드", func(t *testing.T) {
		_, err := env.friends.Redeem(ctx, u1.ID, issued.Code)
		assertCode(t, err, response.ErrCodeInvalidRequest)
	})

	t.Run("실패: 없는 코드", func(t *testing.T) {
		_, err := env.friends.Redeem(ctx, u2.ID, "ZZZZZZZZ")
		assertCode(t, err, response.ErrCodeInvalidRequest)
	})

	t.Run("실패: 만료된 코드", func(t *testing.T) {
		env.friends.now = func() time.Time { return time.Now().Add(49 * time.Hour) }
		defer func() { env.friends.now = time.Now }()

		_, err := env.friends.Redeem(ctx, u2.ID, issued.Code)
		assertCode(t, err, response.ErrCodeInvalidRequest)
		ok, err := env.friends.AreFriends(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// Already befriended users can redeem a fresh code without error
func TestFriendService_RedeemIsIdempotentOnExistingPair(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")

	for i := 0; i < 2; i++ {
		issued, err := env.friends.GenerateCode(ctx, u1.ID)
		require.NoError(t, err)
		_, err = env.friends.Redeem(ctx, u2.ID, issued.Code)
		require.NoError(t, err)
	}
	list, err := env.friends.ListFriends(ctx, u2.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFriendService_CollisionRetriesAreBounded(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")
	env.friends.random = constReader(7)

	issued, err := env.friends.GenerateCode(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, "77777777", issued.Code)

	_, err = env.friends.GenerateCode(ctx, u2.ID)
	assertCode(t, err, response.ErrCodeInvalidRequest)

	// an expired holder does not block the code
	env.friends.now = func() time.Time { return time.Now().Add(72 * time.Hour) }
	again, err := env.friends.GenerateCode(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, "77777777", again.Code)
}

func TestProperty_FriendCodeAlphabet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("any 8 bytes map to an 8 symbol [0-9A-Z] code", prop.ForAll(
		func(raw []byte) bool {
			code, err := newFriendCode(bytes.NewReader(raw))
			return err == nil && friendCodePattern.MatchString(code)
		},
		gen.SliceOfN(8, gen.UInt8()),
	))

	properties.TestingRun(t)
}
