package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessMiddleware answers 503 until ready reports true.
// /healthz always passes so the platform health check succeeds during startup.
func ReadinessMiddleware(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if !ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "service not ready"})
			return
		}
		c.Next()
	}
}
