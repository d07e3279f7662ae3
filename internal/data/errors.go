package data

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared sentinel errors for record store repositories.
var (
	// ErrStore wraps every persistence failure so callers can map them to one response.
	ErrStore = errors.New("record store failure")
	// ErrConstraint marks rows rejected by a schema constraint.
	ErrConstraint = errors.New("record violates a store constraint")
	// ErrUnavailable marks connection-level failures.
	ErrUnavailable = errors.New("record store unavailable")
	// ErrUserIDRequired is returned when a query is not scoped to a user.
	ErrUserIDRequired = errors.New("user_id is required")
)

// classifyPgError maps a Postgres error class to a data-layer sentinel. It returns
// nil when the error carries no recognised SQLSTATE.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch {
	case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code),
		pgerrcode.IsDataException(pgErr.Code):
		return ErrConstraint
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code),
		pgErr.Code == pgerrcode.AdminShutdown,
		pgErr.Code == pgerrcode.CannotConnectNow:
		return ErrUnavailable
	}
	return nil
}
