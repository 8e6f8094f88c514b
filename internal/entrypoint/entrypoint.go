package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/database/entries"
	http_controllers "github.com/mrlokans/foodjournal/internal/http"
	"github.com/mrlokans/foodjournal/internal/images"
	"github.com/mrlokans/foodjournal/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if onShutdown != nil {
			onShutdown(context.Background())
		}
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("ERROR: server shutdown: %v", err)
	}

	// Storage is closed after in-flight requests finished
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
	return nil
}

// NewGateway creates the storage gateway configured by cfg.
func NewGateway(cfg config.Database) *database.Gateway {
	opts := []database.Option{database.WithLogLevel(GormLogLevel(cfg.LogLevel))}
	if cfg.BusyTimeout > 0 {
		opts = append(opts, database.WithBusyTimeout(cfg.BusyTimeout))
	}
	return database.NewGateway(cfg.Path, opts...)
}

// GormLogLevel maps a config string to a gorm log level. Unknown values mean warn.
func GormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Run(cfg *config.Config, version string) error {
	log.Printf("Starting Food Journal v%s", version)

	gw := NewGateway(cfg.Database)
	shell := app.NewShell(gw, cfg)

	// A failed start is not fatal to the process: the host keeps serving
	// the fatal screen so the failure is visible.
	if err := shell.Start(context.Background()); err != nil {
		log.Printf("ERROR: journal storage is unavailable: %v", err)
	}

	library, err := images.NewLibrary(cfg.Images.Dir)
	if err != nil {
		log.Printf("WARNING: image import disabled: %v", err)
		library = nil
	}

	sessionManager := auth.NewSessionManager(cfg.Auth)

	var limiter *auth.LoginLimiter
	if cfg.Auth.MaxLoginAttempts > 0 {
		limiter = auth.NewLoginLimiter(auth.LimitConfig{
			MaxAttempts: cfg.Auth.MaxLoginAttempts,
			Lockout:     cfg.Auth.LoginLockout,
		})
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Shell:          shell,
		SessionManager: sessionManager,
		LoginLimiter:   limiter,
		ImageLibrary:   library,
		Images:         cfg.Images,
		Version:        version,
	})

	var sweepScheduler *scheduler.ImageSweepScheduler
	if library != nil && shell.InitError() == nil {
		sweeper := scheduler.NewImageSweeper(library, entries.NewRepository(gw), cfg.Images.OrphanGrace)
		sweepScheduler = scheduler.NewImageSweepScheduler(sweeper, cfg.Images.SweepSchedule)
		if err := sweepScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: image sweep disabled: %v", err)
		}
	}

	onShutdown := func(ctx context.Context) {
		if sweepScheduler != nil {
			sweepScheduler.Stop()
		}
		if limiter != nil {
			limiter.Stop()
		}
		if err := gw.Close(); err != nil {
			log.Printf("ERROR: failed to close database: %v", err)
		}
	}

	return Serve(router, cfg, onShutdown)
}
