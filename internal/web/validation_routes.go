package web

import (
	"net/http"

	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/validation"
	"github.com/gin-gonic/gin"
)

type taxIDRequest struct {
	TaxID string `json:"taxId"`
}

type postalCodeRequest struct {
	PostalCode string `json:"postalCode"`
}

type validityResponse struct {
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted"`
}

func registerValidationRoutes(router gin.IRouter, resolver postal.Resolver) {
	group := router.Group("/validate")

	group.POST("/tax-id",
		PrepareParams(taxIDRequest{}),
		func(c *gin.Context) {
			request := params[taxIDRequest](c)

			c.JSON(http.StatusOK, validityResponse{
				Valid:     validation.ValidateTaxID(request.TaxID),
				Formatted: validation.FormatTaxID(request.TaxID),
			})
		},
	)

	group.POST("/card",
		PrepareParams(validation.Card{}),
		func(c *gin.Context) {
			card := params[validation.Card](c)

			c.JSON(http.StatusOK, validation.CheckCard(*card, CurrentTimeFunc()))
		},
	)

	group.POST("/postal-code",
		PrepareParams(postalCodeRequest{}),
		func(c *gin.Context) {
			request := params[postalCodeRequest](c)

			c.JSON(http.StatusOK, validityResponse{
				Valid:     validation.ValidatePostalCodeLocal(request.PostalCode),
				Formatted: validation.FormatPostalCode(request.PostalCode),
			})
		},
	)

	router.GET("/postal-codes/:code", func(c *gin.Context) {
		address, err := resolver.Resolve(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, "Failed resolving postal code", err)
			return
		}

		c.JSON(http.StatusOK, address)
	})
}
