package services

import (
	"context"
)

// Message is one element of the ordered message sequence sent to the
// completion endpoint. The first message is always the system prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the provider-agnostic request to the completion
// endpoint.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// CompletionResult carries the generated text and the total token usage as
// reported by the endpoint.
type CompletionResult struct {
	Text       string
	TokensUsed int
}

// CompletionClient invokes the external completion endpoint. Every failure
// (transport, auth, model error, timeout) surfaces as a
// *domain.CompletionError; no retry is performed inside the client.
type CompletionClient interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)
}

// AdmissionGate bounds how many completion calls may proceed per time
// period. Acquire returns nil when a permit was granted, or
// *domain.RateLimitError when the acquire timeout elapsed without one.
// Every call path to the completion endpoint must acquire first.
type AdmissionGate interface {
	Acquire(ctx context.Context) error
}
