package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/gin-gonic/gin"
)

type clientListQuery struct {
	models.ClientFilter
	models.PageQuery
}

func createClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewClient
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		client, err := models.CreateClient(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, client)
	}
}

func listClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q clientListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		clients, err := models.ListClients(c.Request.Context(), q.ClientFilter, q.PageQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

func getClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := models.GetClient(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func updateClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdateClientInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		client, err := models.UpdateClient(c.Request.Context(), c.Param("id"), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func deleteClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := models.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func toggleClientStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := models.ToggleClientStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func listClientPoliciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		policies, err := models.ListClientPolicies(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, policies)
	}
}

func clientWithPoliciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.GetClientWithPolicies(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
