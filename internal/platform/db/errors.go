package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// SQLSTATE constraint classes translated for callers.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// TranslateError maps constraint violations onto the shared sentinels so
// handlers answer 4xx instead of an opaque 500. Non-constraint errors pass
// through unchanged.
func TranslateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: referenced row does not exist (%s)", shared.ErrValidation, pgErr.ConstraintName)
	case codeNotNullViolation:
		return fmt.Errorf("%w: %s must not be null", shared.ErrValidation, pgErr.ColumnName)
	}
	return err
}
