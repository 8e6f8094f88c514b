package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/foodjournal/internal/app"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Screen  string            `json:"screen,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	shell   *app.Shell
	version string
}

func NewHealthController(shell *app.Shell, version string) *HealthController {
	return &HealthController{
		shell:   shell,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"
	screen := ""

	if h.shell != nil {
		screen = string(h.shell.Screen())
		if err := h.shell.InitError(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := h.shell.Gateway().Ping(c.Request.Context()); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Screen:  screen,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
