package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/gin-gonic/gin"
)

type claimListQuery struct {
	models.ClaimFilter
	models.PageQuery
}

func listClaimsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q claimListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		claims, err := models.ListClaims(c.Request.Context(), q.ClaimFilter, q.PageQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, claims)
	}
}

func getClaimHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := models.GetClaim(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, claim)
	}
}

// decideClaimHandler is the adjudication hook: approve or reject a pending claim.
func decideClaimHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var decision models.ClaimDecision
		if err := c.ShouldBindJSON(&decision); err != nil {
			respondBindError(c, err)
			return
		}
		claim, err := models.AdjudicateClaim(c.Request.Context(), c.Param("id"), &decision)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, claim)
	}
}
