package web

import (
	"net/http"

	"bitbucket.org/sportshop/storefront/internal/pricing"
	"bitbucket.org/sportshop/storefront/internal/tools/converting"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type installmentQuery struct {
	Price         string `form:"price" binding:"required"`
	Count         int    `form:"count" binding:"required"`
	NoInterestMax *int   `form:"noInterestMax"`
}

type installmentOptionsQuery struct {
	Price         string `form:"price" binding:"required"`
	NoInterestMax *int   `form:"noInterestMax"`
}

type formattedPlan struct {
	pricing.InstallmentPlan
	PerInstallmentText string `json:"perInstallmentText"`
	TotalText          string `json:"totalText"`
}

func formatPlan(plan pricing.InstallmentPlan) formattedPlan {
	rounded := plan.Rounded()
	return formattedPlan{
		InstallmentPlan:    rounded,
		PerInstallmentText: pricing.FormatBRL(rounded.PerInstallmentValue),
		TotalText:          pricing.FormatBRL(rounded.TotalPayable),
	}
}

func registerPricingRoutes(router gin.IRouter) {
	router.GET("/installments",
		PrepareParams(installmentQuery{}),
		func(c *gin.Context) {
			query := params[installmentQuery](c)

			price, err := decimal.NewFromString(query.Price)
			if err != nil {
				HandleError(c, http.StatusBadRequest, "Invalid price", err)
				return
			}

			noInterestMax := converting.UnwrapOr(query.NoInterestMax, pricing.DefaultNoInterestMax)

			plan, err := pricing.ComputeInstallment(price, query.Count, noInterestMax)
			if err != nil {
				respondError(c, "Failed computing installments", err)
				return
			}

			c.JSON(http.StatusOK, formatPlan(plan))
		},
	)

	router.GET("/installments/options",
		PrepareParams(installmentOptionsQuery{}),
		func(c *gin.Context) {
			query := params[installmentOptionsQuery](c)

			price, err := decimal.NewFromString(query.Price)
			if err != nil {
				HandleError(c, http.StatusBadRequest, "Invalid price", err)
				return
			}

			noInterestMax := converting.UnwrapOr(query.NoInterestMax, pricing.DefaultNoInterestMax)

			plans, err := pricing.Options(price, noInterestMax)
			if err != nil {
				respondError(c, "Failed computing installments", err)
				return
			}

			headline, err := pricing.HeadlineText(price, noInterestMax)
			if err != nil {
				respondError(c, "Failed computing installments", err)
				return
			}

			options := make([]formattedPlan, 0, len(plans))
			for _, plan := range plans {
				options = append(options, formatPlan(plan))
			}

			c.JSON(http.StatusOK, gin.H{
				"headline": headline,
				"options":  options,
			})
		},
	)
}
