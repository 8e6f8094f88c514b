package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrUnexpected         = errors.New("an unexpected error occurred, please try again")
)

// ValidationError reports bad input caught before any storage access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// unexpectedError keeps the storage cause for logs while matching ErrUnexpected.
type unexpectedError struct {
	op  string
	err error
}

func (e *unexpectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *unexpectedError) Unwrap() []error {
	return []error{ErrUnexpected, e.err}
}

// UserMessage returns the alert text shown for err.
func UserMessage(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrEmailExists):
		return "Email already exists"
	default:
		return "An unexpected error occurred. Please try again."
	}
}
