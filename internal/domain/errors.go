package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface keeps the handler layer free of
// per-error-type switch statements.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("unauthorized")
)

// ConversationNotFoundError indicates a conversation id with no persisted turns.
// Raised before any write happens, so the failed request has no side effects.
type ConversationNotFoundError struct {
	ConversationID string
}

func (e *ConversationNotFoundError) Error() string {
	return fmt.Sprintf("conversation not found: %s", e.ConversationID)
}

func (e *ConversationNotFoundError) StatusCode() int { return http.StatusNotFound }

// Is allows errors.Is() to match against ErrNotFound
func (e *ConversationNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RateLimitError indicates the admission gate denied a completion call
// within the acquire timeout. Retryable by the caller; never retried here.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "rate limit exceeded"
}

func (e *RateLimitError) StatusCode() int { return http.StatusTooManyRequests }

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// CompletionError wraps any failure of the external completion endpoint:
// transport, authentication, model-side errors, and timeouts. The cause is
// preserved for the caller; no retry or fallback model is attempted.
type CompletionError struct {
	Cause error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion call failed: %v", e.Cause)
}

func (e *CompletionError) StatusCode() int { return http.StatusBadGateway }

func (e *CompletionError) Unwrap() error { return e.Cause }
