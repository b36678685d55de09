package web

import (
	"errors"
	"net/http"

	"bitbucket.org/sportshop/storefront/internal/account"
	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/verification"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

type photoRequest struct {
	Photo string `json:"photo"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

type codeRequest struct {
	Code string `json:"code" binding:"required"`
}

type verificationResponse struct {
	Channel  verification.Channel `json:"channel"`
	State    verification.State   `json:"state"`
	Verified bool                 `json:"verified"`
}

func registerAccountRoutes(router gin.IRouter, accounts *account.Service) {
	auth := router.Group("/auth")

	auth.POST("/register",
		PrepareParams(account.RegistrationForm{}),
		func(c *gin.Context) {
			user, err := accounts.Register(c.Request.Context(), repository(c), *params[account.RegistrationForm](c))
			if errors.Is(err, postal.ErrNotFound) {
				HandleError(c, http.StatusUnprocessableEntity, "Postal code not found", err)
				return
			}
			if err != nil {
				respondError(c, "Registration failed", err)
				return
			}

			c.JSON(http.StatusCreated, user)
		},
	)

	auth.POST("/login",
		PrepareParams(loginRequest{}),
		func(c *gin.Context) {
			request := params[loginRequest](c)

			user, err := accounts.Login(c.Request.Context(), repository(c), request.Email, request.Password, request.Remember)
			if err != nil {
				respondError(c, "Login failed", err)
				return
			}

			c.JSON(http.StatusOK, user)
		},
	)

	auth.POST("/logout", func(c *gin.Context) {
		if err := accounts.Logout(c.Request.Context(), repository(c)); err != nil {
			respondError(c, "Logout failed", err)
			return
		}

		c.Status(http.StatusNoContent)
	})

	auth.GET("/me", func(c *gin.Context) {
		user, err := accounts.Current(c.Request.Context(), repository(c))
		if err != nil {
			respondError(c, "No current user", err)
			return
		}

		c.JSON(http.StatusOK, user)
	})

	profile := router.Group("/profile")

	profile.PUT("",
		PrepareParams(schema.ProfileData{}),
		func(c *gin.Context) {
			user, err := accounts.SaveProfile(c.Request.Context(), repository(c), *params[schema.ProfileData](c))
			if err != nil {
				respondError(c, "Failed saving profile", err)
				return
			}

			c.JSON(http.StatusOK, user)
		},
	)

	profile.PATCH("/:field",
		PrepareParams(fieldRequest{}),
		func(c *gin.Context) {
			user, err := accounts.UpdateField(c.Request.Context(), repository(c), c.Param("field"), params[fieldRequest](c).Value)
			if err != nil {
				respondError(c, "Failed updating profile", err)
				return
			}

			c.JSON(http.StatusOK, user)
		},
	)

	profile.PUT("/photo",
		PrepareParams(photoRequest{}),
		func(c *gin.Context) {
			user, err := accounts.SavePhoto(c.Request.Context(), repository(c), params[photoRequest](c).Photo)
			if err != nil {
				respondError(c, "Failed saving photo", err)
				return
			}

			c.JSON(http.StatusOK, user)
		},
	)

	profile.DELETE("",
		PrepareParams(passwordRequest{}),
		func(c *gin.Context) {
			if err := accounts.Delete(c.Request.Context(), repository(c), params[passwordRequest](c).Password); err != nil {
				respondError(c, "Failed deleting account", err)
				return
			}

			c.Status(http.StatusNoContent)
		},
	)

	verify := router.Group("/verification/:channel", prepareChannel)

	verify.POST("", func(c *gin.Context) {
		channel := c.MustGet("channel").(verification.Channel)

		challenge, err := accounts.ResendVerification(c.Request.Context(), repository(c), channel)
		if err != nil {
			respondError(c, "Failed sending verification code", err)
			return
		}

		c.JSON(http.StatusAccepted, verificationResponse{
			Channel: channel,
			State:   challenge.State(),
		})
	})

	verify.POST("/confirm",
		PrepareParams(codeRequest{}),
		func(c *gin.Context) {
			channel := c.MustGet("channel").(verification.Channel)

			ok, err := accounts.ConfirmVerification(c.Request.Context(), repository(c), channel, params[codeRequest](c).Code)
			if err != nil {
				respondError(c, "Failed confirming verification code", err)
				return
			}

			if !ok {
				HandleError(c, http.StatusUnprocessableEntity, "Invalid verification code", nil)
				return
			}

			c.JSON(http.StatusOK, verificationResponse{
				Channel:  channel,
				State:    verification.Verified,
				Verified: true,
			})
		},
	)
}

func prepareChannel(c *gin.Context) {
	channel, err := verification.ParseChannel(c.Param("channel"))
	if err != nil {
		respondError(c, "Unknown verification channel", err)
		return
	}

	c.Set("channel", channel)
}
