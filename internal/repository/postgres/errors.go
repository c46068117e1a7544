package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgIntegrityError checks if error is an integrity constraint violation
// (SQLSTATE class 23): a rejected role value, null content, and similar
// data errors. Anything else from the driver is treated as a store
// failure, not a bad turn.
func IsPgIntegrityError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}
