package auth

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/foodjournal/internal/config"
)

// SessionKeyUserID is the only value carried across the login hand-off.
const SessionKeyUserID = "user_id"

// SessionManager wraps scs.SessionManager with application-specific methods.
// Sessions live in memory only, so every launch starts signed out.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured in-memory session manager.
func NewSessionManager(cfg config.Auth) *SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()

	if cfg.SessionLifetime > 0 {
		sm.Lifetime = cfg.SessionLifetime
	}

	sm.Cookie.Name = "journal_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = false

	return &SessionManager{SessionManager: sm}
}

// SignIn records userID for the session after a successful login or registration.
func (sm *SessionManager) SignIn(ctx context.Context, userID uint) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, SessionKeyUserID, int(userID))
	return nil
}

// SignOut discards the session.
func (sm *SessionManager) SignOut(ctx context.Context) error {
	return sm.Destroy(ctx)
}

// UserID returns the signed-in user, or 0.
func (sm *SessionManager) UserID(ctx context.Context) uint {
	return uint(sm.GetInt(ctx, SessionKeyUserID))
}
