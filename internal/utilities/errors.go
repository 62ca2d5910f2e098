package utilities

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// NonFieldErrors is the FieldErrors key for errors not tied to one input field
const NonFieldErrors = "non_field_errors"

// FieldErrors maps each rejected input field to its messages
type FieldErrors map[string][]string

// NewFieldErrors converts a validation failure into FieldErrors.
// Errors that are not per-field end up under non_field_errors.
func NewFieldErrors(err error) FieldErrors {
	fe := FieldErrors{}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, e := range verrs {
			fe[field] = []string{e.Error()}
		}
		return fe
	}

	fe[NonFieldErrors] = []string{err.Error()}
	return fe
}

// FieldError builds FieldErrors holding a single message
func FieldError(field, message string) FieldErrors {
	return FieldErrors{field: {message}}
}

// UniqueViolation reports whether err is a Postgres unique violation and returns the violated constraint
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// ForeignKeyViolation reports whether err is a Postgres foreign key violation
func ForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
