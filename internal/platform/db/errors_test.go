package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

func TestTranslateErrorUniqueViolation(t *testing.T) {
	err := TranslateError(&pgconn.PgError{Code: "23505", ConstraintName: "vehicles_plate_number_key"})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Contains(t, err.Error(), "vehicles_plate_number_key")
}

func TestTranslateErrorForeignKeyViolation(t *testing.T) {
	// role_id yang tidak ada harus jadi 400, bukan 500.
	err := TranslateError(&pgconn.PgError{Code: "23503", ConstraintName: "users_role_id_fkey"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTranslateErrorNotNullViolation(t *testing.T) {
	err := TranslateError(&pgconn.PgError{Code: "23502", ColumnName: "owner_name"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "owner_name")
}

func TestTranslateErrorPassesThrough(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, TranslateError(plain))

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), TranslateError(other))

	assert.Nil(t, TranslateError(nil))
}
