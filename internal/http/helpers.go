package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/database"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 response with a
// user-facing message. The actual error is not exposed to the client.
func respondInternalError(c *gin.Context, err error, context, message string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondUnavailable reports that storage failed to initialize.
func respondUnavailable(c *gin.Context, err error) {
	log.Printf("Storage unavailable: %v", err)
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
		Error: "The journal could not be opened. Please restart the app.",
		Code:  "storage_unavailable",
	})
}

// respondShellError handles errors common to every route: a fatal shell
// or a missing sign-in. It reports whether it responded.
func respondShellError(c *gin.Context, err error) bool {
	var initErr *database.InitializationError
	switch {
	case errors.As(err, &initErr):
		respondUnavailable(c, err)
	case errors.Is(err, app.ErrNotStarted):
		respondError(c, http.StatusServiceUnavailable, "The journal is still starting", "starting")
	case errors.Is(err, app.ErrNotAuthenticated):
		respondError(c, http.StatusUnauthorized, "Please log in", "not_authenticated")
	default:
		return false
	}
	return true
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
