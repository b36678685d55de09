package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RegisterLogger(logger *zerolog.Logger) func(c *gin.Context) {
	return func(c *gin.Context) {
		requestLogger := logger.
			With().
			Str(CorrelationIDKey, c.MustGet(CorrelationIDKey).(string)).
			Logger()

		c.Set(LoggerKey, &requestLogger)
	}
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	return c.MustGet(LoggerKey).(*zerolog.Logger)
}
