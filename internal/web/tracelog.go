package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

func TraceLog(c *gin.Context) {
	c.Next()

	startTime := c.MustGet(RequestStartKey).(time.Time)

	event := requestLogger(c).Info()
	if c.Writer.Status() >= 500 {
		event = requestLogger(c).Error()
	}

	event.
		Str("label", "trace").
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.Path).
		Str("route", c.FullPath()).
		Int("code", c.Writer.Status()).
		Float64("duration", time.Since(startTime).Seconds()).
		Msg("")
}
