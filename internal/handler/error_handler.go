package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kanban-chat-api/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses. The error is
// attached to the context so the request logger records it.
func handleServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	response.SendError(c, http.StatusInternalServerError, response.ErrCodeUnknown, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeUnauthorized, response.ErrCodeInvalidToken, response.ErrCodeWrongPassword:
		return http.StatusUnauthorized
	case response.ErrCodeNotFound, response.ErrCodeUserNotFound:
		return http.StatusNotFound
	case response.ErrCodeInvalidFileType, response.ErrCodeFailedToParseUUID, response.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case response.ErrCodeYouDoNotOwnThisFile:
		return http.StatusForbidden
	case response.ErrCodeUserAlreadyExists, response.ErrCodeAlreadyFriends:
		return http.StatusConflict
	case response.ErrCodeUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
