package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Journal
		Images
	}

	HTTP struct {
		Port int32
		Host string // Loopback by default; the host UI is local to the device
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path        string
		BusyTimeout time.Duration
		LogLevel    string // gorm log level: silent, error, warn, info
	}
	Auth struct {
		BcryptCost        int
		MinPasswordLength int
		SessionLifetime   time.Duration
		SecureCookies     bool // Set to false for local dev without HTTPS
		MaxLoginAttempts  int  // Failed logins before a lockout, 0 disables limiting
		LoginLockout      time.Duration
	}
	Journal struct {
		DefaultCategory string
	}
	Images struct {
		Dir            string
		Quality        int // JPEG quality hint, 1-100
		AspectWidth    int // Crop aspect ratio, 0 disables cropping
		AspectHeight   int
		MaxUploadBytes int64
		SweepSchedule  string        // Cron schedule for removing orphaned photos, empty disables
		OrphanGrace    time.Duration // Unreferenced photos younger than this are kept
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_busy_timeout", "5s")
	v.SetDefault("database_log_level", "warn")

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_min_password_length", 6)  // Minimum password length
	v.SetDefault("auth_session_lifetime", "24h") // Only until the process exits
	v.SetDefault("auth_secure_cookies", false)   // Loopback host serves plain HTTP
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_login_lockout", "15m")

	v.SetDefault("journal_default_category", "Breakfast")

	// Image import defaults
	v.SetDefault("images_dir", DefaultImagesDir)
	v.SetDefault("images_quality", 80)
	v.SetDefault("images_aspect_width", 4)
	v.SetDefault("images_aspect_height", 3)
	v.SetDefault("images_max_upload_bytes", 20<<20) // 20 MiB
	v.SetDefault("images_sweep_schedule", "30 3 * * *")
	v.SetDefault("images_orphan_grace", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:        v.GetString("DATABASE_PATH"),
			BusyTimeout: v.GetDuration("DATABASE_BUSY_TIMEOUT"),
			LogLevel:    v.GetString("DATABASE_LOG_LEVEL"),
		},
		Auth: Auth{
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
			SessionLifetime:   v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:     v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts:  v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			LoginLockout:      v.GetDuration("AUTH_LOGIN_LOCKOUT"),
		},
		Journal: Journal{
			DefaultCategory: v.GetString("JOURNAL_DEFAULT_CATEGORY"),
		},
		Images: Images{
			Dir:            v.GetString("IMAGES_DIR"),
			Quality:        v.GetInt("IMAGES_QUALITY"),
			AspectWidth:    v.GetInt("IMAGES_ASPECT_WIDTH"),
			AspectHeight:   v.GetInt("IMAGES_ASPECT_HEIGHT"),
			MaxUploadBytes: v.GetInt64("IMAGES_MAX_UPLOAD_BYTES"),
			SweepSchedule:  v.GetString("IMAGES_SWEEP_SCHEDULE"),
			OrphanGrace:    v.GetDuration("IMAGES_ORPHAN_GRACE"),
		},
	}
}
