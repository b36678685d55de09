package web

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/sportshop/storefront/internal/cart"
	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/checkout"
	"bitbucket.org/sportshop/storefront/internal/notifications"
	"bitbucket.org/sportshop/storefront/internal/pricing"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/tools/converting"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type addItemRequest struct {
	ProductID int    `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
}

type updateItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type installmentsRequest struct {
	Count int `json:"count" binding:"required"`
}

type cartResponse struct {
	Lines            []schema.CartLine `json:"lines"`
	InstallmentCount int               `json:"installmentCount"`
	ItemCount        int               `json:"itemCount"`
	Total            decimal.Decimal   `json:"total"`
	TotalText        string            `json:"totalText"`
	Plan             formattedPlan     `json:"plan"`
}

type checkoutResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Summary   cart.Summary `json:"summary"`
}

func respondCart(c *gin.Context, state schema.Cart) {
	plan, err := cart.Installment(state)
	if err != nil {
		respondError(c, "Failed computing installments", err)
		return
	}

	total := cart.Total(state)

	c.JSON(http.StatusOK, cartResponse{
		Lines:            state.Lines,
		InstallmentCount: state.InstallmentCount,
		ItemCount:        cart.ItemCount(state),
		Total:            pricing.Round(total),
		TotalText:        pricing.FormatBRL(total),
		Plan:             formatPlan(plan),
	})
}

// mutateCart loads the cart, applies change and saves the result.
func mutateCart(c *gin.Context, change func(store *cart.Store) (schema.Cart, error)) {
	ctx := c.Request.Context()
	repo := repository(c)

	current, err := repo.Cart(ctx)
	if err != nil {
		HandleError(c, http.StatusInternalServerError, "Failed loading cart", err)
		return
	}

	state, err := change(cart.NewStore(current))
	if err != nil {
		respondError(c, "Failed updating cart", err)
		return
	}

	if err := repo.SaveCart(ctx, state); err != nil {
		HandleError(c, http.StatusInternalServerError, "Failed saving cart", err)
		return
	}

	respondCart(c, state)
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		HandleError(c, http.StatusBadRequest, "Invalid product id", err)
		return 0, false
	}
	return id, true
}

func registerCartRoutes(router gin.IRouter, source catalog.Source, signer *checkout.Signer) {
	group := router.Group("/cart")

	group.GET("", func(c *gin.Context) {
		state, err := repository(c).Cart(c.Request.Context())
		if err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed loading cart", err)
			return
		}

		respondCart(c, state)
	})

	group.POST("/items",
		PrepareParams(addItemRequest{}),
		func(c *gin.Context) {
			request := params[addItemRequest](c)

			product, found := catalog.Product(c.Request.Context(), source, request.ProductID)
			if !found {
				HandleError(c, http.StatusNotFound, "Product not found", nil)
				return
			}

			mutateCart(c, func(store *cart.Store) (schema.Cart, error) {
				return store.Add(product, converting.UnwrapOr(request.Quantity, 1), request.Size)
			})
		},
	)

	group.PATCH("/items/:id",
		PrepareParams(updateItemRequest{}),
		func(c *gin.Context) {
			id, ok := productID(c)
			if !ok {
				return
			}

			request := params[updateItemRequest](c)

			mutateCart(c, func(store *cart.Store) (schema.Cart, error) {
				return store.UpdateQuantity(id, request.Delta)
			})
		},
	)

	group.DELETE("/items/:id", func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}

		mutateCart(c, func(store *cart.Store) (schema.Cart, error) {
			return store.Remove(id), nil
		})
	})

	group.DELETE("", func(c *gin.Context) {
		mutateCart(c, func(store *cart.Store) (schema.Cart, error) {
			return store.Clear(), nil
		})
	})

	group.PUT("/installments",
		PrepareParams(installmentsRequest{}),
		func(c *gin.Context) {
			request := params[installmentsRequest](c)

			mutateCart(c, func(store *cart.Store) (schema.Cart, error) {
				return store.SelectInstallments(request.Count)
			})
		},
	)

	group.POST("/checkout", func(c *gin.Context) {
		ctx := c.Request.Context()
		repo := repository(c)

		state, err := repo.Cart(ctx)
		if err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed loading cart", err)
			return
		}

		summary, err := cart.Summarize(state)
		if err != nil {
			respondError(c, "Cart cannot be checked out", err)
			return
		}

		token, expiresAt, err := signer.Sign(repo.ClientID(), summary)
		if err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed signing checkout", err)
			return
		}

		notifyCheckout(c, summary)

		c.JSON(http.StatusOK, checkoutResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Summary:   summary,
		})
	})

	router.GET("/checkout/:token", func(c *gin.Context) {
		handOff, err := signer.Verify(c.Param("token"))
		if err != nil {
			respondError(c, "Invalid checkout token", err)
			return
		}

		c.JSON(http.StatusOK, handOff)
	})
}

// notifyCheckout adds an order notification when the client has them enabled.
// Failures are logged only.
func notifyCheckout(c *gin.Context, summary cart.Summary) {
	ctx := c.Request.Context()
	repo := repository(c)
	logger := requestLogger(c)

	enabled, err := repo.NotificationsEnabled(ctx)
	if err != nil || !enabled {
		return
	}

	stored, found, err := repo.Notifications(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Unable to load notifications")
		return
	}

	feed := notifications.NewFeed(stored, found)
	feed.Now = CurrentTimeFunc
	feed.Add("order", "fa-credit-card", "Pedido em andamento",
		"Finalize o pagamento de "+pricing.FormatBRL(summary.Plan.TotalPayable)+" no checkout.",
		&schema.NotificationAction{Type: "page", Page: "checkout"})

	if err := repo.SaveNotifications(ctx, feed.Items()); err != nil {
		logger.Warn().Err(err).Msg("Unable to save notifications")
	}
}
