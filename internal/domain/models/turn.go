package models

import (
	"time"
)

// Message roles. Role alternation is deliberately not enforced: turns are
// stored exactly as they were produced.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn represents a single persisted message (user or assistant) within a
// conversation. Immutable once written.
//
// ID is assigned by the database sequence at append time, so it is a
// process-wide monotone append order. Chronological queries order by ID
// rather than created_at, which keeps them correct even when two requests
// append to the same conversation concurrently.
type Turn struct {
	ID             int64     `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"` // "user" or "assistant"
	Content        string    `json:"content" db:"content"`
	Model          *string   `json:"model,omitempty" db:"model"`             // set on assistant turns only
	TokensUsed     *int      `json:"tokens_used,omitempty" db:"tokens_used"` // set on assistant turns only
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
