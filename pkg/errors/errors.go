package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can use errors.Is
// against the predefined values even after Clone or Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "Unauthorized")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "Forbidden")
	ErrBadOrigin    = New("BAD_ORIGIN", http.StatusForbidden, "Bad origin")
	ErrRateLimited  = New("RATE_LIMITED", http.StatusTooManyRequests, "Too many requests")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "Invalid input")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "Not found")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "Already exists")
	ErrUpstream     = New("UPSTREAM_ERROR", http.StatusInternalServerError, "Upstream failure")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "Internal Server Error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying the given details payload.
func WithDetails(err *Error, details interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

// IsServerError reports whether err maps to a 5xx status.
func IsServerError(err error) bool {
	if err == nil {
		return false
	}
	return FromError(err).Status >= http.StatusInternalServerError
}
