package journal

import (
	"errors"
	"fmt"

	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/database/entries"
)

var (
	ErrNoUser           = errors.New("journal requires a signed-in user")
	ErrDeleteDeclined   = errors.New("delete was not confirmed")
	ErrEntryNotListed   = errors.New("entry is not in the current list")
	ErrPermissionDenied = errors.New("permission to access images was denied")
)

// ValidationError reports form input rejected before any storage call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PermissionError wraps a failure to obtain an image from a source.
type PermissionError struct {
	Origin Origin
	Err    error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s access failed: %v", e.Origin, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// UserMessage returns the alert text shown for err.
func UserMessage(err error) string {
	var (
		vErr    *ValidationError
		permErr *PermissionError
		qErr    *database.QueryError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, ErrDeleteDeclined):
		return "Delete cancelled"
	case errors.Is(err, ErrPermissionDenied):
		return "Permission to access your photos is required"
	case errors.As(err, &permErr):
		return "Could not get an image. Please try again."
	case errors.Is(err, ErrNoUser):
		return "Please log in again"
	case errors.Is(err, ErrEntryNotListed), errors.Is(err, entries.ErrNotFound):
		return "That entry no longer exists"
	case errors.As(err, &qErr):
		return "Could not save your changes. Please try again."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
