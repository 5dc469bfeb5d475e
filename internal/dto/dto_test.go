package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"kanban-chat-api/internal/domain"
)

func TestNormalize(t *testing.T) {
	reg := &RegisterRequest{Username: "  alice ", Email: " a@example.com\n", Password: " pw "}
	reg.Normalize()
	assert.Equal(t, "alice", reg.Username)
	assert.Equal(t, "a@example.com", reg.Email)
	assert.Equal(t, " pw ", reg.Password, "passwords are taken verbatim")

	code := &RedeemFriendCodeRequest{Code: " x1y2z3a4 "}
	code.Normalize()
	assert.Equal(t, "X1Y2Z3A4", code.Code)

	name := "  bob  "
	upd := &UpdateUserRequest{Username: &name}
	upd.Normalize()
	assert.Equal(t, "bob", *upd.Username)

	empty := &UpdateUserRequest{}
	empty.Normalize()
	assert.Nil(t, empty.Username)
}

func TestToFileResponses(t *testing.T) {
	assert.NotNil(t, ToFileResponses(nil))
	assert.Len(t, ToFileResponses(nil), 0)

	f := &domain.File{Name: "x-a.txt", OwnerID: uuid.New(), Private: true}
	f.ID = uuid.New()
	f.CreatedAt = time.Unix(100, 0)
	got := ToFileResponses([]*domain.File{f})
	assert.Equal(t, []FileResponse{{ID: f.ID, Name: "x-a.txt", OwnerID: f.OwnerID, Private: true, CreatedAt: time.Unix(100, 0)}}, got)
}
