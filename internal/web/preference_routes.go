package web

import (
	"net/http"
	"strconv"

	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/favorites"
	"bitbucket.org/sportshop/storefront/internal/notifications"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/settings"
	"github.com/gin-gonic/gin"
)

type favoritesResponse struct {
	IDs      []int            `json:"ids"`
	Products []schema.Product `json:"products"`
}

type toggleResponse struct {
	IDs   []int `json:"ids"`
	Added bool  `json:"added"`
}

type feedResponse struct {
	Items  []schema.Notification `json:"items"`
	Unread int                   `json:"unread"`
	Badge  string                `json:"badge"`
}

type notificationRequest struct {
	Type    string                     `json:"type" binding:"required"`
	Icon    string                     `json:"icon"`
	Title   string                     `json:"title" binding:"required"`
	Message string                     `json:"message" binding:"required"`
	Action  *schema.NotificationAction `json:"action"`
}

type settingsRequest struct {
	Theme                *string `json:"theme"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
}

func registerFavoriteRoutes(router gin.IRouter, source catalog.Source) {
	group := router.Group("/favorites")

	group.GET("", func(c *gin.Context) {
		ids, err := repository(c).Favorites(c.Request.Context())
		if err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed loading favorites", err)
			return
		}

		store := favorites.NewStore(ids)
		products := []schema.Product{}
		for _, product := range source.Products(c.Request.Context()) {
			if store.Contains(product.ID) {
				products = append(products, product)
			}
		}

		c.JSON(http.StatusOK, favoritesResponse{IDs: store.IDs(), Products: products})
	})

	group.POST("/:id", func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		repo := repository(c)

		current, err := repo.Favorites(ctx)
		if err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed loading favorites", err)
			return
		}

		ids, added := favorites.NewStore(current).Toggle(id)

		if err := repo.SaveFavorites(ctx, ids); err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed saving favorites", err)
			return
		}

		c.JSON(http.StatusOK, toggleResponse{IDs: ids, Added: added})
	})
}

func respondFeed(c *gin.Context, feed *notifications.Feed) {
	c.JSON(http.StatusOK, feedResponse{
		Items:  feed.Items(),
		Unread: feed.UnreadCount(),
		Badge:  feed.Badge(),
	})
}

// withFeed loads the notification feed, runs change and saves when it reports a change.
func withFeed(c *gin.Context, change func(feed *notifications.Feed) (bool, error)) {
	ctx := c.Request.Context()
	repo := repository(c)

	stored, found, err := repo.Notifications(ctx)
	if err != nil {
		HandleError(c, http.StatusInternalServerError, "Failed loading notifications", err)
		return
	}

	feed := notifications.NewFeed(stored, found)
	feed.Now = CurrentTimeFunc

	changed, err := change(feed)
	if err != nil {
		respondError(c, "Failed updating notifications", err)
		return
	}

	if changed {
		if err := repo.SaveNotifications(ctx, feed.Items()); err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed saving notifications", err)
			return
		}
	}

	respondFeed(c, feed)
}

func registerPreferenceRoutes(router gin.IRouter) {
	group := router.Group("/notifications")

	group.GET("", func(c *gin.Context) {
		withFeed(c, func(feed *notifications.Feed) (bool, error) {
			return false, nil
		})
	})

	group.POST("",
		PrepareParams(notificationRequest{}),
		func(c *gin.Context) {
			request := params[notificationRequest](c)

			withFeed(c, func(feed *notifications.Feed) (bool, error) {
				feed.Add(request.Type, request.Icon, request.Title, request.Message, request.Action)
				return true, nil
			})
		},
	)

	group.POST("/:id/read", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			HandleError(c, http.StatusBadRequest, "Invalid notification id", err)
			return
		}

		withFeed(c, func(feed *notifications.Feed) (bool, error) {
			return feed.MarkRead(id)
		})
	})

	group.POST("/read-all", func(c *gin.Context) {
		withFeed(c, func(feed *notifications.Feed) (bool, error) {
			return feed.MarkAllRead(), nil
		})
	})

	router.GET("/settings", func(c *gin.Context) {
		current, err := settings.Load(c.Request.Context(), repository(c))
		if err != nil {
			HandleError(c, http.StatusInternalServerError, "Failed loading settings", err)
			return
		}

		c.JSON(http.StatusOK, current)
	})

	router.PUT("/settings",
		PrepareParams(settingsRequest{}),
		func(c *gin.Context) {
			request := params[settingsRequest](c)

			current, err := settings.Update(c.Request.Context(), repository(c), request.Theme, request.NotificationsEnabled)
			if err != nil {
				respondError(c, "Failed saving settings", err)
				return
			}

			c.JSON(http.StatusOK, current)
		},
	)
}
