package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockout)
	assert.Equal(t, "Breakfast", cfg.Journal.DefaultCategory)
	assert.Equal(t, DefaultImagesDir, cfg.Images.Dir)
	assert.Equal(t, 80, cfg.Images.Quality)
	assert.Equal(t, int64(20<<20), cfg.Images.MaxUploadBytes)
	assert.Equal(t, "30 3 * * *", cfg.Images.SweepSchedule)
	assert.Equal(t, 24*time.Hour, cfg.Images.OrphanGrace)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/tmp/journal.db")
	t.Setenv("AUTH_MIN_PASSWORD_LENGTH", "8")
	t.Setenv("JOURNAL_DEFAULT_CATEGORY", "Snack")
	t.Setenv("PORT", "9000")

	cfg := NewConfig()

	assert.Equal(t, "/tmp/journal.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Auth.MinPasswordLength)
	assert.Equal(t, "Snack", cfg.Journal.DefaultCategory)
	assert.Equal(t, int32(9000), cfg.HTTP.Port)
}
