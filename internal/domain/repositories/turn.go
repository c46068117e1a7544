package repositories

import (
	"context"

	"converse/internal/domain/models"
)

// TurnRepository defines the interface for conversation turn storage.
// The store is append-only: turns are never updated or deleted here.
type TurnRepository interface {
	// Append persists a new turn. The store assigns ID and CreatedAt and
	// writes them back into the passed turn. The ID comes from a database
	// sequence, so append order is totally ordered across writers.
	Append(ctx context.Context, turn *models.Turn) error

	// ListByConversation retrieves every turn of a conversation in
	// chronological (append) order. Returns an empty slice for unknown ids.
	ListByConversation(ctx context.Context, conversationID string) ([]models.Turn, error)

	// RecentByConversation retrieves the most recent turns of a
	// conversation, newest first, bounded by limit.
	RecentByConversation(ctx context.Context, conversationID string, limit int) ([]models.Turn, error)

	// ListByUser retrieves all turns belonging to a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Turn, error)
}
