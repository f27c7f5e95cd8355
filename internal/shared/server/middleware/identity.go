package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/shared/util"
)

const (
	userIDKey     = "userId"
	guestHeader   = "X-Guest-Id"
	maxGuestIDLen = 64
)

// Identity assigns every caller a stable owner key for the records it creates.
// Browsers that send X-Guest-Id get "guest:<id>"; everyone else is keyed by a hash of the client IP.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(guestHeader))
		if guestID != "" && len(guestID) <= maxGuestIDLen {
			c.Set(userIDKey, "guest:"+guestID)
			c.Next()
			return
		}

		c.Set(userIDKey, "anon:"+util.ShortKey(c.ClientIP(), 16))
		c.Next()
	}
}

// UserIDFromContext fetches the owner key set by the Identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
