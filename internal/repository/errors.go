package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store-level facts. Services translate these into caller-facing errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Unique constraint names as created by the migrations.
const (
	ConstraintUsername = "users_username_key"
	ConstraintEmail    = "users_email_key"
	ConstraintContact  = "users_contact_key"
)

var constraintFields = map[string]string{
	ConstraintUsername: "username",
	ConstraintEmail:    "email",
	ConstraintContact:  "contact",
}

// ConflictError reports which unique constraint rejected a write.
type ConflictError struct {
	Field      string
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ConflictField returns the field of a ConflictError in err's chain.
func ConflictField(err error) (string, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Field, true
	}
	return "", false
}

// translate maps driver errors onto the store-level errors above. Anything
// else is wrapped and passed through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			// Only known constraints name a field; others stay internal.
			if field, ok := constraintFields[pgErr.ConstraintName]; ok {
				return &ConflictError{Field: field, Constraint: pgErr.ConstraintName}
			}
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}
