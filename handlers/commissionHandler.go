package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/gin-gonic/gin"
)

type commissionListQuery struct {
	models.CommissionFilter
	models.PageQuery
}

func createCommissionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCommission
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		commission, err := models.CreateCommission(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, commission)
	}
}

func listCommissionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q commissionListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		commissions, err := models.ListCommissions(c.Request.Context(), q.CommissionFilter, q.PageQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, commissions)
	}
}

func getCommissionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		commission, err := models.GetCommission(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, commission)
	}
}

func updateCommissionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		var input models.UpdateCommissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		commission, err := models.UpdateCommission(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, commission)
	}
}

func deleteCommissionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := models.DeleteCommission(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
