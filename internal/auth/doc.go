// Package auth provides login and registration for the journal.
//
// Flow is a two-mode state machine: in ModeLogin Submit checks the
// credentials against the stored bcrypt hash, in ModeRegister it hashes the
// password and creates the user. Duplicate emails are rejected by the
// UNIQUE index on users.email, not by a prior lookup.
//
// # Configuration
//
//	AUTH_BCRYPT_COST=12               # bcrypt cost factor
//	AUTH_MIN_PASSWORD_LENGTH=6        # Shortest accepted password
//	AUTH_SESSION_LIFETIME=24h         # Session duration
//	AUTH_SECURE_COOKIES=false         # HTTPS-only cookies
//
// # Sessions
//
// SessionManager keeps the signed-in user ID in an in-memory scs store.
// It is the only value handed from authentication to the journal:
//
//	router.Use(sessionManager.SessionLoadSave())
//	journal := router.Group("/api/journal", sessionManager.RequireUser())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
