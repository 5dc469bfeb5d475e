package service

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
)

const (
	friendCodeAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	friendCodeLength     = 8
	friendCodeTTL        = 48 * time.Hour
	friendCodeMaxRetries = 16
)

// FriendService issues and redeems friend codes and answers friendship queries
type FriendService interface {
	GenerateCode(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error)
	GetCode(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error)
	Redeem(ctx context.Context, userID uuid.UUID, code string) (*domain.PubUser, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.PubUser, error)
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type friendServiceImpl struct {
	store   *repository.Store
	random  io.Reader
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewFriendService creates a FriendService drawing codes from crypto/rand
func NewFriendService(store *repository.Store, m *metrics.Metrics, logger *zap.Logger) FriendService {
	return &friendServiceImpl{
		store:   store,
		random:  rand.Reader,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
}

// newFriendCode maps 8 random bytes onto the 36 symbol alphabet
func newFriendCode(random io.Reader) (string, error) {
	var buf [friendCodeLength]byte
	if _, err := io.ReadFull(random, buf[:]); err != nil {
		return "", err
	}
	code := make([]byte, friendCodeLength)
	for i, b := range buf {
		code[i] = friendCodeAlphabet[int(b)%len(friendCodeAlphabet)]
	}
	return string(code), nil
}

// GenerateCode issues a fresh code valid for two days, replacing any
// previous one
func (s *friendServiceImpl) GenerateCode(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error) {
	var issued *domain.FriendCode
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		now := s.now().UTC()
		for attempt := 0; attempt < friendCodeMaxRetries; attempt++ {
			code, err := newFriendCode(s.random)
			if err != nil {
				return response.NewInternalError("Failed to read random bytes", err)
			}
			inUse, err := tx.Users.FriendCodeInUse(ctx, code, now)
			if err != nil {
				return err
			}
			if inUse {
				continue
			}

			expiresAt := now.Add(friendCodeTTL)
			if err := tx.Users.SetFriendCode(ctx, userID, &code, &expiresAt); err != nil {
				return translateUser(err)
			}
			issued = &domain.FriendCode{Code: code, ExpiresAt: expiresAt}
			return nil
		}
		return response.NewInvalidRequestError("Could not generate a unique friend code", "")
	})
	if err != nil {
		return nil, translate(err, "")
	}

	s.metrics.IncrementFriendCodeIssued()
	return issued, nil
}

// GetCode returns the current code, or nil when none is set
func (s *friendServiceImpl) GetCode(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, translateUser(err)
	}
	if user.FriendCode == nil || user.FriendCodeExpiresAt == nil {
		return nil, nil
	}
	return &domain.FriendCode{Code: *user.FriendCode, ExpiresAt: *user.FriendCodeExpiresAt}, nil
}

// Redeem befriends the caller with the code's owner and consumes the code.
// An unknown, expired or own code is InvalidRequest.
func (s *friendServiceImpl) Redeem(ctx context.Context, userID uuid.UUID, code string) (*domain.PubUser, error) {
	var owner *domain.User
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		owner, err = tx.Users.FindByFriendCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewInvalidRequestError("Unknown friend code", "")
		}
		if err != nil {
			return err
		}
		if owner.FriendCodeExpiresAt == nil || !owner.FriendCodeExpiresAt.After(s.now()) {
			return response.NewInvalidRequestError("Friend code has expired", "")
		}
		if owner.ID == userID {
			return response.NewInvalidRequestError("Cannot redeem your own friend code", "")
		}

		if err := tx.Friends.AddPair(ctx, userID, owner.ID); err != nil {
			return err
		}
		return tx.Users.SetFriendCode(ctx, owner.ID, nil, nil)
	})
	if err != nil {
		return nil, translate(err, "")
	}

	s.logger.Info("Friend code redeemed",
		zap.String("user_id", userID.String()),
		zap.String("friend_id", owner.ID.String()))
	pub := owner.Public()
	return &pub, nil
}

func (s *friendServiceImpl) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.PubUser, error) {
	friends, err := s.store.Friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	out := make([]domain.PubUser, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.Public())
	}
	return out, nil
}

func (s *friendServiceImpl) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	ok, err := s.store.Friends.AreFriends(ctx, a, b)
	if err != nil {
		return false, translate(err, "")
	}
	return ok, nil
}
