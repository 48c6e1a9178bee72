package errors

import "net/http"

// Kind classifies what went wrong at the store boundary.
type Kind string

const (
	KindNotAuthenticated Kind = "NOT_AUTHENTICATED"
	KindNotFound         Kind = "NOT_FOUND"
	KindPersistence      Kind = "PERSISTENCE_ERROR"
	KindSubscription     Kind = "SUBSCRIPTION_ERROR"
	KindUnexpected       Kind = "UNEXPECTED"
)

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Common errors
var (
	ErrInvalidRequest   = NewAppError(http.StatusBadRequest, KindUnexpected, "Invalid request parameters")
	ErrNotAuthenticated = NewAppError(http.StatusUnauthorized, KindNotAuthenticated, "Not authenticated")
	ErrForbidden        = NewAppError(http.StatusForbidden, KindUnexpected, "Access denied")
	ErrNotFound         = NewAppError(http.StatusNotFound, KindNotFound, "Resource not found")
	ErrInternalServer   = NewAppError(http.StatusInternalServerError, KindUnexpected, "Internal server error")
	ErrRateLimit        = NewAppError(http.StatusTooManyRequests, KindUnexpected, "Rate limit exceeded")
)

// Helper functions to create specific errors
func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, KindUnexpected, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, msg)
}

func NotAuthenticated(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, KindNotAuthenticated, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, KindUnexpected, msg)
}

// Persistence wraps a row-store failure. The underlying driver error is
// logged by the caller, never surfaced to the client.
func Persistence(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, KindPersistence, msg)
}

// Subscription marks a change-feed registration failure.
func Subscription(msg string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, KindSubscription, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, KindUnexpected, msg)
}
