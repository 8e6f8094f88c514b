package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/entities"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth:    config.Auth{BcryptCost: bcrypt.MinCost, MinPasswordLength: 6},
		Journal: config.Journal{DefaultCategory: "Lunch"},
	}
}

func setupTestShell(t *testing.T, path string) *Shell {
	t.Helper()
	gw := database.NewGateway(path, database.WithLogLevel(logger.Silent))
	t.Cleanup(func() { gw.Close() })
	return NewShell(gw, testConfig())
}

func TestShell_Start(t *testing.T) {
	t.Run("routes to auth after initializing storage", func(t *testing.T) {
		shell := setupTestShell(t, filepath.Join(t.TempDir(), "app.db"))
		assert.Equal(t, ScreenLoading, shell.Screen())

		require.NoError(t, shell.Start(context.Background()))

		assert.Equal(t, ScreenAuth, shell.Screen())
		assert.True(t, shell.Gateway().Initialized())
		assert.NoError(t, shell.Start(context.Background()))
	})

	t.Run("initialization failure blocks everything", func(t *testing.T) {
		shell := setupTestShell(t, filepath.Join(t.TempDir(), "missing", "app.db"))

		err := shell.Start(context.Background())

		var initErr *database.InitializationError
		require.ErrorAs(t, err, &initErr)
		assert.Equal(t, ScreenFatal, shell.Screen())
		assert.Equal(t, err, shell.InitError())

		_, err = shell.Auth()
		assert.ErrorAs(t, err, &initErr)
		_, err = shell.SignIn(context.Background(), "a@b.com", "secret1")
		assert.ErrorAs(t, err, &initErr)
		_, err = shell.Journal(1)
		assert.ErrorAs(t, err, &initErr)
		assert.ErrorAs(t, shell.Start(context.Background()), &initErr)
	})

	t.Run("nothing works before start", func(t *testing.T) {
		shell := setupTestShell(t, filepath.Join(t.TempDir(), "app.db"))

		_, err := shell.Auth()
		assert.ErrorIs(t, err, ErrNotStarted)
	})
}

func TestShell_SignInHandsOverUserID(t *testing.T) {
	shell := setupTestShell(t, filepath.Join(t.TempDir(), "app.db"))
	ctx := context.Background()
	require.NoError(t, shell.Start(ctx))

	flow, err := shell.Auth()
	require.NoError(t, err)
	flow.Toggle()

	userID, err := shell.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)
	assert.Equal(t, ScreenJournal, shell.Screen())

	user, err := shell.User(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)

	j, err := shell.Journal(userID)
	require.NoError(t, err)
	assert.Equal(t, userID, j.UserID())
	assert.Equal(t, entities.CategoryLunch, j.Form().Category)

	_, err = shell.Journal(userID + 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	j.SetImage("img://1")
	j.SetDescription("Oatmeal")
	require.NoError(t, j.SetCategory(entities.CategoryBreakfast))
	require.NoError(t, j.Save(ctx))

	shell.SignOut()
	assert.Equal(t, ScreenAuth, shell.Screen())
	_, err = shell.Journal(userID)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Logging back in loads the stored entries.
	flow.Toggle()
	require.Equal(t, auth.ModeLogin, flow.Mode())
	_, err = shell.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	j, err = shell.Journal(userID)
	require.NoError(t, err)
	list := j.Entries()
	require.Len(t, list, 1)
	assert.Equal(t, "Oatmeal", list[0].Description)
	assert.Equal(t, entities.CategoryBreakfast, list[0].Category)
}

func TestShell_SignInFailureStaysOnAuth(t *testing.T) {
	shell := setupTestShell(t, filepath.Join(t.TempDir(), "app.db"))
	ctx := context.Background()
	require.NoError(t, shell.Start(ctx))

	_, err := shell.SignIn(ctx, "a@b.com", "wrongpass")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, ScreenAuth, shell.Screen())
	_, err = shell.Journal(1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
