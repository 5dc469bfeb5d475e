package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/response"
)

const (
	// UserIDKey is where the authenticated user's id is stored on the gin context
	UserIDKey = "user_id"
	// UserKey holds the full *domain.User
	UserKey = "user"

	tokenCookie   = "token"
	verifyTimeout = 5 * time.Second
)

// TokenVerifier resolves a token to the user it was issued for
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// Auth rejects requests without a valid token. The Authorization header
// wins over the token cookie when both are present.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := credential(c)
		if !ok {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if token == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), verifyTimeout)
		defer cancel()

		user, err := verifier.Verify(ctx, token)
		if err != nil {
			status, code, msg := verifyFailure(err)
			response.SendError(c, status, code, msg)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid credential is present and
// otherwise lets the request through anonymously
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := credential(c)
		if !ok || token == "" {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), verifyTimeout)
		defer cancel()

		if user, err := verifier.Verify(ctx, token); err == nil {
			c.Set(UserIDKey, user.ID)
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// credential returns the bearer token or the token cookie. ok is false when
// neither is present; an empty token with ok means a malformed header.
func credential(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", true
		}
		return strings.TrimSpace(parts[1]), true
	}
	if cookie, err := c.Cookie(tokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func verifyFailure(err error) (int, string, string) {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case response.ErrCodeInvalidToken, response.ErrCodeUnauthorized:
			return http.StatusUnauthorized, appErr.Code, appErr.Message
		}
		return http.StatusInternalServerError, appErr.Code, appErr.Message
	}
	return http.StatusInternalServerError, response.ErrCodeUnknown, "Failed to verify credentials"
}
