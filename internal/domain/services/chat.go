package services

import (
	"context"
	"time"

	"converse/internal/domain/models"
)

// ChatRequest is the DTO for chat operations, one-shot and conversational.
type ChatRequest struct {
	Message      string   `json:"message"`
	UserID       string   `json:"user_id,omitempty"` // overridden by auth context when present
	Model        string   `json:"model,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

// ChatResult is the DTO returned by every chat operation.
type ChatResult struct {
	ConversationID string    `json:"conversation_id,omitempty"`
	Message        string    `json:"message"`
	Model          string    `json:"model"`
	TokensUsed     int       `json:"tokens_used"`
	Timestamp      time.Time `json:"timestamp"`
}

// ChatService handles one-shot chats without conversation memory.
type ChatService interface {
	// ProcessChat sends a single message to the completion endpoint.
	// Caller-supplied temperature and max tokens are honored.
	ProcessChat(ctx context.Context, req *ChatRequest) (*ChatResult, error)
}

// ConversationService handles multi-turn, context-aware conversations.
//
// Both chat entry points persist the user turn before calling the
// completion endpoint: conversation continuity is prioritized over
// atomicity, so a failed completion leaves the user turn in place with no
// assistant reply.
type ConversationService interface {
	// StartConversation mints a fresh conversation id (derived from the
	// user id when one was supplied) and runs the chat pipeline.
	StartConversation(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// ContinueConversation appends to an existing conversation. Fails with
	// *domain.ConversationNotFoundError, before any write, when the id has
	// no persisted turns. The conversation owner is resolved from the
	// first existing turn, not from the request.
	ContinueConversation(ctx context.Context, conversationID string, req *ChatRequest) (*ChatResult, error)

	// ListUserTurns retrieves all turns for a user, newest first.
	ListUserTurns(ctx context.Context, userID string) ([]models.Turn, error)

	// ListConversationTurns retrieves a conversation's turns in
	// chronological order.
	ListConversationTurns(ctx context.Context, conversationID string) ([]models.Turn, error)
}
