package web

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// PrepareParams binds the request into a new value of val's type and stores
// the pointer under ParamsKey.
func PrepareParams(val any) gin.HandlerFunc {
	value := reflect.ValueOf(val)
	if value.Kind() == reflect.Ptr {
		panic(`Bind struct can not be a pointer.`)
	}

	typ := value.Type()

	return func(c *gin.Context) {
		params := reflect.New(typ).Interface()

		if err := c.ShouldBind(params); err != nil {
			HandleError(c, http.StatusBadRequest, "Failed to bind request params", err)
			return
		}

		c.Set(ParamsKey, params)
	}
}

func params[T any](c *gin.Context) *T {
	return c.MustGet(ParamsKey).(*T)
}
