package middleware

import (
	"strconv"
	"time"

	"daylog-api/observability"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records a counter and latency histogram per request.
// The route template (e.g. /api/activities/:id) is used as the label, not
// the raw path, to keep cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.ObserveRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
