package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/shared/telemetry"
)

// Error codes shared by every handler.
const (
	CodeValidation       = "validation_error"
	CodeNotFound         = "not_found"
	CodeFileTooLarge     = "file_too_large"
	CodeUnsupportedMedia = "unsupported_media_type"
	CodeRateLimited      = "rate_limited"
	CodeQueueUnavailable = "queue_unavailable"
	CodeInternal         = "internal"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// contextKeys are copied from the gin context into the http.error log line.
var contextKeys = map[string]string{
	"userId":   "user_id",
	"resumeId": "resume_id",
	"scanId":   "scan_id",
}

// Error sends a standardized error response. Client errors log at warn, server errors at error.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	for key, field := range contextKeys {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
