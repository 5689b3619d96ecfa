package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	HeaderXUserID = "X-User-ID"
	ContextUserID = "user_id"
)

// Identity records the caller identity the gateway verified upstream.
// Authentication itself happens at the gateway; this service only tags
// requests for logging and audit.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader(HeaderXUserID); uid != "" {
			c.Set(ContextUserID, uid)
		}
		c.Next()
	}
}
