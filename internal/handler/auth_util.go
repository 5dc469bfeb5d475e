package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"kanban-chat-api/internal/response"
)

const (
	// ContextUserID is the gin context key the auth middleware stores the caller under
	ContextUserID = "user_id"
	tokenCookie   = "token"
)

// ExtractUserID returns the authenticated caller or writes a 401
func ExtractUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

// optionalUserID returns the caller on routes that also serve anonymous requests
func optionalUserID(c *gin.Context) *uuid.UUID {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userUUID
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeFailedToParseUUID, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body; a well-formed body missing required fields is a 422
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.SendError(c, http.StatusUnprocessableEntity, response.ErrCodeUnprocessable, "Missing required fields")
		return false
	}
	response.SendError(c, http.StatusBadRequest, response.ErrCodeInvalidRequest, "Invalid request body")
	return false
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, maxAge, "/", "", false, true)
}
