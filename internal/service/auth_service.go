package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/auth"
	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/response"
)

const minPasswordLength = 8

// AuthService handles accounts and resolves tokens to users
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.PubUser, string, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.PubUser, string, error)
	Verify(ctx context.Context, token string) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetPublicUser(ctx context.Context, userID uuid.UUID) (*domain.PubUser, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*domain.PubUser, string, error)
}

type authServiceImpl struct {
	store  *repository.Store
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(store *repository.Store, tokens *auth.TokenManager, logger *zap.Logger) AuthService {
	return &authServiceImpl{store: store, tokens: tokens, logger: logger}
}

func translateUser(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeUserNotFound, "User not found", "")
	}
	return translate(err, "")
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.PubUser, string, error) {
	req.Normalize()
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, "", response.NewInvalidRequestError("Username, email and password are required", "")
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", response.NewInvalidRequestError("Password is too short", "at least 8 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", response.NewInternalError("Failed to hash password", err)
	}
	user := &domain.User{Username: req.Username, Email: req.Email, PasswordHash: hash}

	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		taken, err := tx.Users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return response.NewAppError(response.ErrCodeUserAlreadyExists, "Username or email already in use", "")
		}
		return tx.Users.Create(ctx, user)
	})
	if database.IsUniqueViolation(err) {
		return nil, "", response.NewAppError(response.ErrCodeUserAlreadyExists, "Username or email already in use", "")
	}
	if err != nil {
		return nil, "", translate(err, "")
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*domain.PubUser, string, error) {
	req.Normalize()
	user, err := s.store.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", translateUser(err)
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", response.NewAppError(response.ErrCodeWrongPassword, "Wrong password", "")
		}
		return nil, "", response.NewInternalError("Failed to check password", err)
	}
	return s.issue(user)
}

func (s *authServiceImpl) issue(user *domain.User) (*domain.PubUser, string, error) {
	pub := user.Public()
	token, err := s.tokens.Issue(pub)
	if err != nil {
		return nil, "", response.NewInternalError("Failed to issue token", err)
	}
	return &pub, token, nil
}

// Verify resolves a token to its user. A forged, expired or stale token
// (user gone or renamed since issue) is InvalidToken.
func (s *authServiceImpl) Verify(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, response.NewUnauthorizedError("Missing credentials")
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInvalidToken, "Invalid token", err.Error())
	}
	user, err := s.store.Users.FindByID(ctx, claims.User.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInvalidToken, "Invalid token", "unknown user")
		}
		return nil, translate(err, "")
	}
	if user.Username != claims.User.Username {
		return nil, response.NewAppError(response.ErrCodeInvalidToken, "Invalid token", "stale username")
	}
	return user, nil
}

func (s *authServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, translateUser(err)
	}
	return user, nil
}

func (s *authServiceImpl) GetPublicUser(ctx context.Context, userID uuid.UUID) (*domain.PubUser, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateUser applies a partial profile update and re-issues the token since
// it carries a username snapshot
func (s *authServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*domain.PubUser, string, error) {
	req.Normalize()

	var newHash string
	if req.NewPassword != nil {
		if len(*req.NewPassword) < minPasswordLength {
			return nil, "", response.NewInvalidRequestError("Password is too short", "at least 8 characters")
		}
		if req.OldPassword == nil {
			return nil, "", response.NewInvalidRequestError("old_password is required to change the password", "")
		}
		var err error
		newHash, err = auth.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, "", response.NewInternalError("Failed to hash password", err)
		}
	}

	var user *domain.User
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		user, err = tx.Users.FindByID(ctx, userID)
		if err != nil {
			return translateUser(err)
		}

		if req.Username != nil && *req.Username != user.Username {
			if *req.Username == "" {
				return response.NewInvalidRequestError("Username must not be empty", "")
			}
			taken, err := tx.Users.ExistsByUsernameOrEmail(ctx, *req.Username, user.Email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return response.NewAppError(response.ErrCodeUserAlreadyExists, "Username already in use", "")
			}
			user.Username = *req.Username
		}
		if req.ProfileURL != nil {
			user.ProfileURL = req.ProfileURL
		}
		if req.Bio != nil {
			user.Bio = req.Bio
		}
		if newHash != "" {
			if err := auth.CheckPassword(user.PasswordHash, *req.OldPassword); err != nil {
				if errors.Is(err, auth.ErrPasswordMismatch) {
					return response.NewAppError(response.ErrCodeWrongPassword, "Wrong password", "")
				}
				return err
			}
			user.PasswordHash = newHash
		}
		return tx.Users.Update(ctx, user)
	})
	if database.IsUniqueViolation(err) {
		return nil, "", response.NewAppError(response.ErrCodeUserAlreadyExists, "Username already in use", "")
	}
	if err != nil {
		return nil, "", translate(err, "")
	}
	return s.issue(user)
}
