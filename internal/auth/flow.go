package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database/users"
	"github.com/mrlokans/foodjournal/internal/entities"
)

// Mode selects what Submit does with the credentials.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// UserStore is the user persistence the flow needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// Flow is the login/register state machine. It starts in ModeLogin.
type Flow struct {
	users  UserStore
	config config.Auth

	mu   sync.Mutex
	mode Mode
}

// NewFlow creates an authentication flow backed by users.
func NewFlow(users UserStore, cfg config.Auth) *Flow {
	return &Flow{
		users:  users,
		config: cfg,
		mode:   ModeLogin,
	}
}

// Mode returns the current mode.
func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Toggle switches between login and register and returns the new mode.
func (f *Flow) Toggle() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
	return f.mode
}

// Submit validates the input and logs in or registers depending on the
// mode. On success it returns the user's ID.
func (f *Flow) Submit(ctx context.Context, email, password string) (uint, error) {
	if err := ValidateCredentials(email, password, f.config.MinPasswordLength); err != nil {
		return 0, err
	}
	email = strings.TrimSpace(email)

	if f.Mode() == ModeRegister {
		return f.register(ctx, email, password)
	}
	return f.login(ctx, email, password)
}

// login never tells the caller which of email or password was wrong.
func (f *Flow) login(ctx context.Context, email, password string) (uint, error) {
	user, err := f.users.GetByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, unexpected("login", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return 0, ErrInvalidCredentials
		}
		return 0, unexpected("login", err)
	}

	log.Printf("User %d logged in", user.ID)
	return user.ID, nil
}

// register relies on the UNIQUE email index to reject duplicates.
func (f *Flow) register(ctx context.Context, email, password string) (uint, error) {
	hash, err := HashPassword(password, f.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return 0, &ValidationError{Field: "password", Message: "Password is too long"}
		}
		return 0, unexpected("register", err)
	}

	user, err := f.users.Create(ctx, email, hash)
	if errors.Is(err, users.ErrEmailTaken) {
		return 0, ErrEmailExists
	}
	if err != nil {
		return 0, unexpected("register", err)
	}

	log.Printf("Registered user %d", user.ID)
	return user.ID, nil
}

func unexpected(op string, err error) error {
	log.Printf("ERROR: %s failed: %v", op, err)
	return &unexpectedError{op: op, err: err}
}
