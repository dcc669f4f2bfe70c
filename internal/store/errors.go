package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors the repositories surface instead of raw driver errors.
// Handlers translate them to client-facing statuses; anything else is an
// internal error.
var (
	// ErrNotFound means no row matched.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey means the write referenced a row that does not exist.
	ErrForeignKey = errors.New("invalid reference")
	// ErrUnavailable means the store could not be reached in time, e.g.
	// pool exhaustion past the request deadline. Transient, distinct from
	// constraint and not-found failures.
	ErrUnavailable = errors.New("store unavailable")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapError converts driver-level failures into the store taxonomy. Errors it
// does not recognize pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		}
	}
	return err
}
