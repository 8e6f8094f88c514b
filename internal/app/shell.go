// Package app is the application shell: it initializes storage once at
// startup and routes between the authentication and journal screens.
// The only state handed from authentication to the journal is the user ID.
package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/database/entries"
	"github.com/mrlokans/foodjournal/internal/database/users"
	"github.com/mrlokans/foodjournal/internal/entities"
	"github.com/mrlokans/foodjournal/internal/journal"
)

// Screen is the currently routed screen.
type Screen string

const (
	ScreenLoading Screen = "loading"
	ScreenAuth    Screen = "auth"
	ScreenJournal Screen = "journal"
	// ScreenFatal blocks all further use after storage failed to initialize.
	ScreenFatal Screen = "fatal"
)

var (
	ErrNotStarted       = errors.New("application has not started")
	ErrNotAuthenticated = errors.New("not signed in")
)

// Shell owns the gateway lifetime and the active screen.
type Shell struct {
	gw      *database.Gateway
	cfg     *config.Config
	auth    *auth.Flow
	users   *users.Repository
	entries *entries.Repository

	mu      sync.Mutex
	screen  Screen
	initErr error
	journal *journal.Flow
}

// NewShell creates a shell around gw. Nothing is opened until Start.
func NewShell(gw *database.Gateway, cfg *config.Config) *Shell {
	userRepo := users.NewRepository(gw)
	return &Shell{
		gw:      gw,
		cfg:     cfg,
		auth:    auth.NewFlow(userRepo, cfg.Auth),
		users:   userRepo,
		entries: entries.NewRepository(gw),
		screen:  ScreenLoading,
	}
}

// Start initializes storage. On failure the shell moves to ScreenFatal
// for the rest of the process and every later call returns the same error.
func (s *Shell) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.screen {
	case ScreenFatal:
		return s.initErr
	case ScreenLoading:
	default:
		return nil
	}

	if err := s.gw.Initialize(ctx); err != nil {
		log.Printf("ERROR: storage initialization failed, journal is unavailable: %v", err)
		s.initErr = err
		s.screen = ScreenFatal
		return err
	}

	s.screen = ScreenAuth
	return nil
}

// Screen returns the routed screen.
func (s *Shell) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// InitError returns the initialization failure, if any.
func (s *Shell) InitError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initErr
}

// Gateway returns the storage gateway owned by the shell.
func (s *Shell) Gateway() *database.Gateway {
	return s.gw
}

func (s *Shell) ready() error {
	switch s.screen {
	case ScreenFatal:
		return s.initErr
	case ScreenLoading:
		return ErrNotStarted
	}
	return nil
}

// Auth returns the authentication flow.
func (s *Shell) Auth() (*auth.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.auth, nil
}

// User returns the account of a signed-in user.
func (s *Shell) User(ctx context.Context, userID uint) (*entities.User, error) {
	s.mu.Lock()
	err := s.ready()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.users.GetByID(ctx, userID)
}

// SignIn submits credentials in the auth flow's current mode. On success
// it routes to the journal for the returned user.
func (s *Shell) SignIn(ctx context.Context, email, password string) (uint, error) {
	flow, err := s.Auth()
	if err != nil {
		return 0, err
	}

	userID, err := flow.Submit(ctx, email, password)
	if err != nil {
		return 0, err
	}

	j, err := journal.NewFlow(s.entries, userID,
		journal.WithDefaultCategory(entities.Category(s.cfg.Journal.DefaultCategory)))
	if err != nil {
		return 0, err
	}
	// A failed first load is not fatal: the journal screen shows an empty
	// list and the next successful action re-fetches.
	if err := j.Refresh(ctx); err != nil {
		log.Printf("WARNING: initial journal load for user %d failed: %v", userID, err)
	}

	s.mu.Lock()
	s.journal = j
	s.screen = ScreenJournal
	s.mu.Unlock()

	return userID, nil
}

// Journal returns the journal flow for userID, the user handed over by SignIn.
func (s *Shell) Journal(userID uint) (*journal.Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.journal == nil || userID == 0 || s.journal.UserID() != userID {
		return nil, ErrNotAuthenticated
	}
	return s.journal, nil
}

// SignOut drops the journal and routes back to authentication.
func (s *Shell) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen == ScreenFatal || s.screen == ScreenLoading {
		return
	}
	s.journal = nil
	s.screen = ScreenAuth
}
