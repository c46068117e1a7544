package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"converse/internal/domain"
	"converse/internal/domain/models"
	"converse/internal/domain/repositories"
)

// PostgresTurnRepository implements the TurnRepository interface using
// PostgreSQL. The turns table is append-only; its BIGSERIAL id doubles as
// the append sequence, which is what all ordering clauses use.
type PostgresTurnRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTurnRepository creates a new PostgresTurnRepository
func NewTurnRepository(config *RepositoryConfig) repositories.TurnRepository {
	return &PostgresTurnRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append persists a new turn and writes the assigned id and timestamp back
// into it.
func (r *PostgresTurnRepository) Append(ctx context.Context, turn *models.Turn) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, conversation_id, role, content, model, tokens_used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		turn.UserID,
		turn.ConversationID,
		turn.Role,
		turn.Content,
		turn.Model,
		turn.TokensUsed,
	).Scan(&turn.ID, &turn.CreatedAt)

	if err != nil {
		// A constraint violation means the turn itself is bad, not the store.
		if IsPgIntegrityError(err) {
			return fmt.Errorf("%w: invalid turn: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("append turn: %w", err)
	}

	return nil
}

const turnColumns = "id, user_id, conversation_id, role, content, model, tokens_used, created_at"

// scanner defines the interface for row scanning (implemented by both
// pgx.Row and pgx.Rows).
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTurnRow(row scanner) (*models.Turn, error) {
	var turn models.Turn
	err := row.Scan(
		&turn.ID,
		&turn.UserID,
		&turn.ConversationID,
		&turn.Role,
		&turn.Content,
		&turn.Model,
		&turn.TokensUsed,
		&turn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

func (r *PostgresTurnRepository) queryTurns(ctx context.Context, query string, args ...interface{}) ([]models.Turn, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := []models.Turn{}
	for rows.Next() {
		turn, err := scanTurnRow(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, *turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return turns, nil
}

// ListByConversation retrieves all turns of a conversation in append order.
func (r *PostgresTurnRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Turn, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE conversation_id = $1
		ORDER BY id ASC
	`, turnColumns, r.tables.Turns)

	turns, err := r.queryTurns(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list turns by conversation: %w", err)
	}
	return turns, nil
}

// RecentByConversation retrieves the newest turns of a conversation,
// newest first.
func (r *PostgresTurnRepository) RecentByConversation(ctx context.Context, conversationID string, limit int) ([]models.Turn, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE conversation_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, turnColumns, r.tables.Turns)

	turns, err := r.queryTurns(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent turns by conversation: %w", err)
	}
	return turns, nil
}

// ListByUser retrieves all turns belonging to a user, newest first.
func (r *PostgresTurnRepository) ListByUser(ctx context.Context, userID string) ([]models.Turn, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY id DESC
	`, turnColumns, r.tables.Turns)

	turns, err := r.queryTurns(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list turns by user: %w", err)
	}
	return turns, nil
}
