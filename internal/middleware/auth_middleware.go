package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where OptionalIdentity stores the caller's user id.
const ContextUserIDKey = "user_id"

// OptionalIdentity copies the user id the upstream gateway injects via
// X-User-ID into the request context. Anonymous requests pass through
// untouched; token verification happens at the gateway, not here.
func OptionalIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader("X-User-ID")); id != "" {
			c.Set(ContextUserIDKey, id)
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated caller's id, or nil for
// anonymous requests.
func UserIDFromContext(c *gin.Context) *string {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return nil
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}
