package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader = "X-User-ID"
	UserIDKey    = "user_id"
)

// UserContext resolves the acting user from the X-User-ID header and falls
// back to defaultUserID. There is no authentication.
func UserContext(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			userID = defaultUserID
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
