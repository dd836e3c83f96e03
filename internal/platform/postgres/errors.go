package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	connectionExceptionCode = "08000"
)

var (
	// ErrNotFound is returned when a query matches no journal rows.
	ErrNotFound = errors.New("journal entry not found")

	// ErrDuplicate is returned when a revision is journaled twice.
	ErrDuplicate = errors.New("journal entry already exists")

	// ErrInvalidEntry is returned when a row violates a table constraint.
	ErrInvalidEntry = errors.New("invalid journal entry")

	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("journal database unavailable")
)

// MapError maps a database error to a package error, wrapping the original.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %v", ErrInvalidEntry, pgErr.ConstraintName, err)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %v", ErrInvalidEntry, pgErr.ColumnName, err)
		case connectionExceptionCode:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CheckRowsAffected returns ErrNotFound when result affected no rows.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, entityName)
	}
	return nil
}
