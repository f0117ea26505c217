package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the REST API on r.
func RegisterRoutes(r gin.IRouter) {
	RegisterValidators()

	r.GET("/health", healthHandler())

	policies := r.Group("/policies")
	policies.POST("", createPolicyHandler())
	policies.GET("", listPoliciesHandler())
	policies.GET("/export", exportPoliciesHandler())
	policies.GET("/:id", getPolicyHandler())
	policies.PUT("/:id", updatePolicyHandler())
	policies.DELETE("/:id", cancelPolicyHandler())
	policies.POST("/:id/renew", renewPolicyHandler())
	policies.POST("/:id/claims", createClaimHandler())
	policies.GET("/:id/claims", listPolicyClaimsHandler())
	policies.GET("/:id/summary", policySummaryHandler())

	claims := r.Group("/claims")
	claims.GET("", listClaimsHandler())
	claims.GET("/:id", getClaimHandler())
	claims.POST("/:id/decision", decideClaimHandler())

	clients := r.Group("/clients")
	clients.POST("", createClientHandler())
	clients.GET("", listClientsHandler())
	clients.GET("/:id", getClientHandler())
	clients.PUT("/:id", updateClientHandler())
	clients.DELETE("/:id", deleteClientHandler())
	clients.PATCH("/:id/status", toggleClientStatusHandler())
	clients.GET("/:id/policies", listClientPoliciesHandler())
	clients.GET("/:id/with-policies", clientWithPoliciesHandler())

	products := r.Group("/products")
	products.POST("", createProductHandler())
	products.GET("", listProductsHandler())
	products.GET("/export", exportProductsHandler())
	products.GET("/type/:type", listProductsByTypeHandler())
	products.GET("/search/:term", searchProductsHandler())
	products.GET("/:id", getProductHandler())
	products.PUT("/:id", updateProductHandler())
	products.DELETE("/:id", deleteProductHandler())
	products.PATCH("/:id/status", updateProductStatusHandler())

	commissions := r.Group("/commissions")
	commissions.POST("", createCommissionHandler())
	commissions.GET("", listCommissionsHandler())
	commissions.GET("/:id", getCommissionHandler())
	commissions.PUT("/:id", updateCommissionHandler())
	commissions.DELETE("/:id", deleteCommissionHandler())
}

func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{Detail: "route not found"})
}
