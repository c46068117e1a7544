package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the turns table and its indexes if they do not
// exist. Used by cmd/seed and test setups; production deployments run
// migrations out of band.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				user_id TEXT NOT NULL,
				conversation_id TEXT NOT NULL,
				role TEXT NOT NULL CHECK (role IN ('system', 'user', 'assistant')),
				content TEXT NOT NULL,
				model TEXT,
				tokens_used INTEGER,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Turns),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_conversation_idx
			ON %s (conversation_id, id)
		`, tables.Turns, tables.Turns),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_user_idx
			ON %s (user_id, id DESC)
		`, tables.Turns, tables.Turns),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
