package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/gin-gonic/gin"
)

type productListQuery struct {
	models.ProductFilter
	models.PageQuery
}

type productStatusQuery struct {
	NewStatus models.ProductStatus `form:"new_status" binding:"required,oneof=active inactive discontinued"`
}

// intParam reads a positive integer path parameter.
func intParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, utils.InvalidInput("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q productListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		products, err := models.ListProducts(c.Request.Context(), q.ProductFilter, q.PageQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func listProductsByTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		productType := models.ProductType(c.Param("type"))
		if !productType.IsValid() {
			respondError(c, utils.InvalidInput("invalid product type %q", productType))
			return
		}
		products, err := models.ListProducts(c.Request.Context(), models.ProductFilter{ProductType: productType}, models.DefaultPage())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func searchProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := models.SearchProducts(c.Request.Context(), c.Param("term"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func exportProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ProductFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBindError(c, err)
			return
		}
		f, err := models.ExportProducts(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		var input models.UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func updateProductStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		var q productStatusQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		product, err := models.UpdateProductStatus(c.Request.Context(), id, q.NewStatus)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := models.DeleteProduct(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
