package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/gin-gonic/gin"
)

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := models.CheckHealth(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "handlers", "healthHandler", "health check", nil, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
