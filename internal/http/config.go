package http

import (
	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/images"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Shell          *app.Shell
	SessionManager *auth.SessionManager
	LoginLimiter   *auth.LoginLimiter // nil disables login throttling

	// Image import; nil disables the image upload endpoint
	ImageLibrary *images.Library
	Images       config.Images

	// Application info
	Version string
}
