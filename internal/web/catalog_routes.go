package web

import (
	"net/http"
	"strconv"

	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/pricing"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"github.com/gin-gonic/gin"
)

type productDetail struct {
	schema.Product
	Sizes           []string `json:"sizes,omitempty"`
	InstallmentText string   `json:"installmentText"`
}

func registerCatalogRoutes(router gin.IRouter, source catalog.Source) {
	group := router.Group("/catalog")

	group.GET("/products",
		PrepareParams(catalog.Query{}),
		func(c *gin.Context) {
			query := params[catalog.Query](c)

			order, err := catalog.ParseSort(string(query.Sort))
			if err != nil {
				respondError(c, "Unknown sort order", err)
				return
			}
			query.Sort = order

			c.JSON(http.StatusOK, catalog.Apply(source.Products(c.Request.Context()), *query))
		},
	)

	group.GET("/products/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			HandleError(c, http.StatusBadRequest, "Invalid product id", err)
			return
		}

		product, found := catalog.Product(c.Request.Context(), source, id)
		if !found {
			HandleError(c, http.StatusNotFound, "Product not found", nil)
			return
		}

		headline, err := pricing.HeadlineText(product.Price, pricing.DefaultNoInterestMax)
		if err != nil {
			respondError(c, "Failed computing installments", err)
			return
		}

		c.JSON(http.StatusOK, productDetail{
			Product:         product,
			Sizes:           catalog.SizesFor(product.Category),
			InstallmentText: headline,
		})
	})

	group.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, source.Categories(c.Request.Context()))
	})

	group.GET("/sections", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.BuildSections(source.Products(c.Request.Context())))
	})
}
