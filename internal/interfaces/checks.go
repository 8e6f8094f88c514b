package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/database/entries"
	"github.com/mrlokans/foodjournal/internal/database/users"
	"github.com/mrlokans/foodjournal/internal/journal"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// UserStore implementations
var _ auth.UserStore = (*users.Repository)(nil)

// Journal Store implementations
var _ journal.Store = (*entries.Repository)(nil)

// =============================================================================
// Image Sources and Prompts
// =============================================================================

var _ journal.ImageSource = journal.ImageSourceFunc(nil)
var _ journal.Confirmer = journal.ConfirmFunc(nil)
var _ journal.Confirmer = journal.Answer(false)
