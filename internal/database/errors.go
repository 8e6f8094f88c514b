package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrNotInitialized is returned by operations that need an open connection
// but never trigger initialization themselves.
var ErrNotInitialized = errors.New("database is not initialized")

// InitializationError means the database file could not be opened or the
// schema could not be applied. It is not recoverable without a restart.
type InitializationError struct {
	Path  string
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize database %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// QueryError wraps a storage failure for a single statement.
type QueryError struct {
	Kind  Kind
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err was caused by a UNIQUE or PRIMARY KEY
// constraint failing.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// IsForeignKeyViolation reports whether err was caused by a FOREIGN KEY constraint.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
