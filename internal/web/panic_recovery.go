package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func PanicRecovery(c *gin.Context) {
	gin.CustomRecoveryWithWriter(&recoveryWriter{
		logger: requestLogger(c),
	}, func(c *gin.Context, recovered any) {
		var err error
		switch value := recovered.(type) {
		case error:
			err = value
		case string:
			err = fmt.Errorf("%s", value)
		}

		HandleError(c, http.StatusInternalServerError, "Unexpected error, panic recovered", err)
	})(c)
}

// recoveryWriter sends the stack dump gin prints to the request logger.
type recoveryWriter struct {
	logger *zerolog.Logger
}

func (r *recoveryWriter) Write(p []byte) (int, error) {
	r.logger.
		Error().
		Str("label", "panic").
		Msg(string(p))

	return len(p), nil
}
