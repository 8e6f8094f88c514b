package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyUserID is the gin context key set by RequireUser.
const ContextKeyUserID = "user_id"

// RequireUser aborts with 401 unless the session carries a user ID, and
// stores the ID under ContextKeyUserID otherwise.
func (sm *SessionManager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := sm.UserID(c.Request.Context())
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please log in"})
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the user ID stored by RequireUser, or 0.
func GetUserID(c *gin.Context) uint {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}
