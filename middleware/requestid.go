package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is where the request id lives in the gin context.
const ContextKeyRequestID = "requestId"

// RequestIDMiddleware ensures that each request has a stable X-Request-ID.
// A client-provided id is propagated; otherwise a new UUIDv4 is generated.
// The value is echoed on the response header and exposed to downstream
// middleware (the access logger includes it) via the gin context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set(ContextKeyRequestID, reqID)
		c.Next()
	}
}
