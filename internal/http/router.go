package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	healthController := NewHealthController(cfg.Shell, cfg.Version)
	router.GET("/health", healthController.Status)

	// Nothing but the health check works once storage failed to open
	router.Use(FatalScreenMiddleware(cfg.Shell))

	router.Use(cfg.SessionManager.SessionLoadSave())

	authController := NewAuthController(cfg.Shell, cfg.SessionManager, cfg.LoginLimiter)
	authGroup := router.Group("/api/auth")
	{
		authGroup.GET("", authController.State)
		authGroup.POST("/mode", authController.ToggleMode)
		authGroup.POST("/submit", authController.Submit)
		authGroup.POST("/logout", authController.Logout)
	}

	journalController := NewJournalController(cfg.Shell, cfg.ImageLibrary, cfg.Images)
	journalGroup := router.Group("/api/journal", cfg.SessionManager.RequireUser())
	{
		journalGroup.GET("", journalController.State)
		journalGroup.GET("/entries", journalController.ListEntries)
		journalGroup.PUT("/filter", journalController.SetFilter)
		journalGroup.POST("/refresh", journalController.Refresh)
		journalGroup.PUT("/form", journalController.UpdateForm)
		journalGroup.POST("/form/reset", journalController.ResetForm)
		journalGroup.POST("/image", journalController.PickImage)
		journalGroup.GET("/image", journalController.Image)
		journalGroup.POST("/entries/:id/edit", journalController.Edit)
		journalGroup.POST("/save", journalController.Save)
		journalGroup.DELETE("/entries/:id", journalController.Delete)
	}

	return router
}

// FatalScreenMiddleware rejects every request with 503 after the shell
// failed to initialize storage.
func FatalScreenMiddleware(shell *app.Shell) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shell.Screen() == app.ScreenFatal {
			respondUnavailable(c, shell.InitError())
			return
		}
		c.Next()
	}
}
