package http

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/database/users"
)

// AuthState is what the authentication screen renders.
type AuthState struct {
	Mode   auth.Mode `json:"mode"`
	Screen string    `json:"screen"`
	UserID uint      `json:"user_id,omitempty"`
	Email  string    `json:"email,omitempty"`
}

type AuthController struct {
	shell    *app.Shell
	sessions *auth.SessionManager
	limiter  *auth.LoginLimiter
}

func NewAuthController(shell *app.Shell, sessions *auth.SessionManager, limiter *auth.LoginLimiter) *AuthController {
	return &AuthController{shell: shell, sessions: sessions, limiter: limiter}
}

// State returns the current mode and routed screen
// GET /api/auth
func (ac *AuthController) State(c *gin.Context) {
	flow, err := ac.shell.Auth()
	if err != nil {
		if !respondShellError(c, err) {
			respondInternalError(c, err, "auth state", auth.UserMessage(err))
		}
		return
	}

	state := AuthState{
		Mode:   flow.Mode(),
		Screen: string(ac.shell.Screen()),
		UserID: ac.sessions.UserID(c.Request.Context()),
	}
	if state.UserID != 0 {
		user, err := ac.shell.User(c.Request.Context(), state.UserID)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			respondInternalError(c, err, "load user", auth.UserMessage(err))
			return
		}
		if user != nil {
			state.Email = user.Email
		}
	}
	c.JSON(http.StatusOK, state)
}

// ToggleMode switches between login and register
// POST /api/auth/mode
func (ac *AuthController) ToggleMode(c *gin.Context) {
	flow, err := ac.shell.Auth()
	if err != nil {
		if !respondShellError(c, err) {
			respondInternalError(c, err, "toggle mode", auth.UserMessage(err))
		}
		return
	}

	mode := flow.Toggle()
	c.JSON(http.StatusOK, AuthState{Mode: mode, Screen: string(ac.shell.Screen())})
}

// Submit logs in or registers with the posted credentials
// POST /api/auth/submit
func (ac *AuthController) Submit(c *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	// Only logins are throttled; registration failures reveal nothing to guess at
	throttled := ac.limiter != nil && ac.currentMode() == auth.ModeLogin
	ip := c.ClientIP()
	if throttled {
		if allowed, retryAfter := ac.limiter.Allow(ip, req.Email); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respondError(c, http.StatusTooManyRequests, "Too many login attempts. Please try again later.", "too_many_attempts")
			return
		}
	}

	ctx := c.Request.Context()
	userID, err := ac.shell.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if throttled && errors.Is(err, auth.ErrInvalidCredentials) {
			if locked, _ := ac.limiter.RecordFailure(ip, req.Email); locked {
				log.Printf("WARNING: login locked out for %s after repeated failures", ip)
			}
		}
		ac.respondAuthError(c, err)
		return
	}
	if throttled {
		ac.limiter.RecordSuccess(ip, req.Email)
	}

	if err := ac.sessions.SignIn(ctx, userID); err != nil {
		respondInternalError(c, err, "create session", auth.UserMessage(auth.ErrUnexpected))
		return
	}

	c.JSON(http.StatusOK, AuthState{
		Mode:   ac.currentMode(),
		Screen: string(ac.shell.Screen()),
		UserID: userID,
	})
}

// Logout ends the session and routes back to the authentication screen
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessions.SignOut(c.Request.Context()); err != nil {
		respondInternalError(c, err, "destroy session", auth.UserMessage(auth.ErrUnexpected))
		return
	}
	ac.shell.SignOut()
	respondSuccess(c, "Logged out")
}

func (ac *AuthController) currentMode() auth.Mode {
	flow, err := ac.shell.Auth()
	if err != nil {
		return auth.ModeLogin
	}
	return flow.Mode()
}

func (ac *AuthController) respondAuthError(c *gin.Context, err error) {
	if respondShellError(c, err) {
		return
	}

	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, vErr.Message, "validation")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, auth.UserMessage(err), "invalid_credentials")
	case errors.Is(err, auth.ErrEmailExists):
		respondError(c, http.StatusConflict, auth.UserMessage(err), "email_exists")
	default:
		respondInternalError(c, err, "submit credentials", auth.UserMessage(err))
	}
}
