package web

import (
	"context"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func loadRouter(document []byte) (routers.Router, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}

	return gorillamux.NewRouter(doc)
}

// OpenapiValidator rejects requests that do not match the API document.
// Paths missing from the document are passed through. When the document
// cannot be loaded validation is disabled.
func OpenapiValidator(log *zerolog.Logger, document []byte) gin.HandlerFunc {
	router, err := loadRouter(document)
	if err != nil {
		log.Warn().
			Err(err).
			Str("label", "openapi").
			Msg("Request validation disabled")

		return func(c *gin.Context) {}
	}

	options := &openapi3filter.Options{MultiError: true}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if err != nil {
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			HandleError(c, http.StatusBadRequest, "Request does not match the API document", err)
		}
	}
}
