package web

import (
	"net/http"
	"time"

	"bitbucket.org/sportshop/storefront/internal/account"
	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/checkout"
	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/storage"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the handlers are wired to.
type Dependencies struct {
	Storage  storage.Engine
	Postal   postal.Resolver
	Catalog  catalog.Source
	Accounts *account.Service
	Signer   *checkout.Signer
	// OpenAPI is the API document served and enforced on requests.
	OpenAPI    []byte
	Production bool
}

func SetupRouter(log *zerolog.Logger, deps Dependencies) *gin.Engine {
	startTime := time.Now()

	if deps.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.
		Use(StartRequest).
		Use(CorrelationId).
		Use(RegisterLogger(log)).
		Use(TraceLog).
		Use(PanicRecovery).
		Use(OpenapiValidator(log, deps.OpenAPI))

	router.GET("/status", func(c *gin.Context) {
		response := struct {
			Uptime float64 `json:"uptime"`
		}{
			Uptime: time.Since(startTime).Seconds(),
		}

		c.JSON(http.StatusOK, response)
	})

	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", deps.OpenAPI)
	})

	pprof.Register(router)

	registerPricingRoutes(router)
	registerValidationRoutes(router, deps.Postal)
	registerCatalogRoutes(router, deps.Catalog)

	client := router.Group("", PrepareClient(deps.Storage), TapLogger)

	registerCartRoutes(client, deps.Catalog, deps.Signer)
	registerFavoriteRoutes(client, deps.Catalog)
	registerAccountRoutes(client, deps.Accounts)
	registerPreferenceRoutes(client)

	return router
}
