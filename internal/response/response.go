package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes. The string value is what clients see in error_type.
const (
	ErrCodeUnauthorized        = "Unauthorized"
	ErrCodeInvalidToken        = "InvalidToken"
	ErrCodeNotFound            = "NotFound"
	ErrCodeInvalidFileType     = "InvalidFileType"
	ErrCodeFailedToParseUUID   = "FailedToParseUUID"
	ErrCodeInvalidRequest      = "InvalidRequest"
	ErrCodeYouDoNotOwnThisFile = "YouDoNotOwnThisFile"
	ErrCodeUserAlreadyExists   = "UserAlreadyExists"
	ErrCodeAlreadyFriends      = "AlreadyFriends"
	ErrCodeUserNotFound        = "UserNotFound"
	ErrCodeWrongPassword       = "WrongPassword"
	ErrCodeUnprocessable       = "UnprocessableEntity"
	ErrCodeInternal            = "InternalServerError"
	ErrCodeUnknown             = "UnknownError"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string
	Message string
	Details string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches AppErrors by code so errors.Is works against the sentinels below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Sentinels usable with errors.Is. Only the code is compared.
var (
	ErrUnauthorized   = &AppError{Code: ErrCodeUnauthorized}
	ErrInvalidToken   = &AppError{Code: ErrCodeInvalidToken}
	ErrNotFound       = &AppError{Code: ErrCodeNotFound}
	ErrInvalidRequest = &AppError{Code: ErrCodeInvalidRequest}
)

func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, "")
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, "")
}

func NewInvalidRequestError(message, details string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, message, details)
}

func NewInternalError(message string, err error) *AppError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewAppError(ErrCodeInternal, message, details)
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	ErrorType string `json:"error_type"`
	ErrorMsg  string `json:"error_msg"`
}

// SendError writes an error response and aborts the chain
func SendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		ErrorType: code,
		ErrorMsg:  message,
	})
}

// SendSuccess writes data as the response body
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
