package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/server/respond"
	"findmyjob-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope unless a response was already started.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.IncPanics()
				fields := map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"route":      c.FullPath(),
					"method":     c.Request.Method,
				}
				if scanID := c.GetString("scanId"); scanID != "" {
					fields["scan_id"] = scanID
				}
				telemetry.Error("http.panic", fields)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				respond.Internal(c)
			}
		}()
		c.Next()
	}
}
