package services

import "fmt"

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

type SessionErrorCode string

const (
	NoReadyFish          SessionErrorCode = "NO_READY_FISH"
	SessionAlreadyActive SessionErrorCode = "SESSION_ALREADY_ACTIVE"
	NoActiveSession      SessionErrorCode = "NO_ACTIVE_SESSION"
	FishMismatch         SessionErrorCode = "FISH_MISMATCH"
)

// SessionError is a fishing session state conflict.
type SessionError struct {
	Code    SessionErrorCode
	Message string
}

func (e *SessionError) Error() string { return e.Message }

// UpstreamError means an external dependency (the text generator) did not
// produce a usable answer.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }
