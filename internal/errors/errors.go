package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/logger"
)

// Error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the error result every service returns. The HTTP status is
// decided here and nowhere else.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches another *APIError with the same code, so sentinel values work with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// NewValidationError reports malformed or missing input (400).
func NewValidationError(message string) *APIError {
	return newAPIError(http.StatusBadRequest, ErrCodeInvalidInput, message)
}

// NewAuthError reports bad credentials or a bad token (401).
func NewAuthError(message string) *APIError {
	return newAPIError(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// NewNotFoundError reports a missing resource, or one owned by someone else (404).
func NewNotFoundError(message string) *APIError {
	return newAPIError(http.StatusNotFound, ErrCodeNotFound, message)
}

// NewConflictError reports a uniqueness violation. The public contract keeps it at 400.
func NewConflictError(message string) *APIError {
	return newAPIError(http.StatusBadRequest, ErrCodeConflict, message)
}

// NewUnavailableError reports an optional collaborator that is not configured (503).
func NewUnavailableError(message string) *APIError {
	return newAPIError(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// NewInternalError wraps an unexpected failure (500). The message is shown to the client.
func NewInternalError(message string, err error) *APIError {
	e := newAPIError(http.StatusInternalServerError, ErrCodeInternalError, message)
	e.Err = err
	return e
}

// Predefined errors
var (
	ErrNotAuthenticated = NewAuthError("Missing or invalid authorization token")
	ErrInvalidBody      = NewValidationError("Invalid request body")
	ErrTaskNotFound     = NewNotFoundError("Task not found")
	ErrUserNotFound     = NewNotFoundError("User not found")
)

// StatusCode returns the HTTP status for err; anything that is not an *APIError is a 500.
func StatusCode(err error) int {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// Respond writes err as the JSON error body and aborts the chain.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		apiErr = NewInternalError(err.Error(), err)
	}
	if apiErr.Status == 0 {
		apiErr.Status = http.StatusInternalServerError
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"request_id", c.GetString(constants.ContextKeyRequestID),
			"path", c.FullPath(),
			"error", apiErr.Message,
			"cause", apiErr.Err,
		)
	}

	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = ErrNotAuthenticated.Message
	}
	Respond(c, NewAuthError(message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Respond(c, NewNotFoundError(message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = ErrInvalidBody.Message
	}
	Respond(c, NewValidationError(message))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context) {
	Respond(c, newAPIError(http.StatusTooManyRequests, ErrCodeRateLimited, "Rate limit exceeded"))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Respond(c, NewInternalError(message, nil))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	Respond(c, NewUnavailableError(message))
}
