package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translate(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	})

	t.Run("unique violation names the field", func(t *testing.T) {
		for constraint, field := range map[string]string{
			ConstraintUsername: "username",
			ConstraintEmail:    "email",
			ConstraintContact:  "contact",
		} {
			err := translate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraint}))
			assert.ErrorIs(t, err, ErrConflict)
			got, ok := ConflictField(err)
			assert.True(t, ok)
			assert.Equal(t, field, got)
		}
	})

	t.Run("unknown unique constraint is not a conflict", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23505", ConstraintName: "registrations_some_new_key"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrConflict)
		_, ok := ConflictField(err)
		assert.False(t, ok)
		var pgErr *pgconn.PgError
		assert.True(t, errors.As(err, &pgErr), "driver error stays in the chain for logging")
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: "23503", ConstraintName: "registrations_user_id_fkey"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := translate(cause)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrConflict)
		_, ok := ConflictField(err)
		assert.False(t, ok)
	})
}
