package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeoutConfig struct {
	Duration time.Duration
}

// DefaultTimeoutConfig allows for one full retry cycle against the
// generative-text upstream before the request is cut off.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Duration: 60 * time.Second,
	}
}

// Timeout bounds the request context. Handlers observe the deadline through
// ctx; a request that outlives it gets a 504 if nothing was written yet.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, ErrorResponse{
				Code:    http.StatusGatewayTimeout,
				Message: "Request timeout",
				TraceID: c.GetString(ContextRequestID),
			})
		}
	}
}
