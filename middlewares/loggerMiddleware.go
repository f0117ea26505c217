package middlewares

import (
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorLogger logs only requests that recorded errors in c.Errors.
func ErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			ip, _ := utils.GetClientIpFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"correlationId": cid,
				"clientIp":      ip,
				"method":        c.Request.Method,
				"path":          c.FullPath(),
				"status":        c.Writer.Status(),
			}).Error(c.Errors.String())
		}
	}
}

// AccessLogger writes one info line per request.
func AccessLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if !logger.IsLevelEnabled(logrus.InfoLevel) {
			return
		}
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		logger.WithFields(logrus.Fields{
			"correlationId": cid,
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        c.Writer.Status(),
			"latencyMs":     time.Since(start).Milliseconds(),
			"clientIp":      c.ClientIP(),
		}).Info("request")
	}
}
