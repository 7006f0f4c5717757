// Package middleware provides the gin middleware and request-scoped context
// values shared by handlers and outbound clients.
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HeaderRequestID carries the request id between services.
const HeaderRequestID = "X-Acme-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores a request id on ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom returns the request id stored on ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID reuses the caller's request id or generates one, echoes it in the
// response and attaches it to the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// Logger writes one structured access log line per request.
func Logger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"request_id": RequestIDFrom(c.Request.Context()),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("HTTP request")
			return
		}
		entry.Info("HTTP request")
	}
}
