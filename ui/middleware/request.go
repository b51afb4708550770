package middleware

import (
	"strings"
	"time"

	"coordash/internal"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's request id or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request. Static assets are logged at
// trace level only.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		status := c.Writer.Status()
		elapsed := time.Since(start)
		id := c.GetString("request_id")

		switch {
		case status >= 500:
			logger.Error("[HTTP] %s %s %d %s id=%s", c.Request.Method, path, status, elapsed, id)
		case strings.HasPrefix(path, "/static/"):
			logger.Trace("[HTTP] %s %s %d %s", c.Request.Method, path, status, elapsed)
		default:
			logger.Info("[HTTP] %s %s %d %s id=%s", c.Request.Method, path, status, elapsed, id)
		}
	}
}
