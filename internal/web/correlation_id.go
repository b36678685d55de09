package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationId takes the correlation id from the request or starts a new one,
// and echoes it back.
func CorrelationId(c *gin.Context) {
	correlationId := c.GetHeader(CorrelationIDHeader)
	if correlationId == "" {
		correlationId = uuid.New().String()
	}

	c.Header(CorrelationIDHeader, correlationId)
	c.Set(CorrelationIDKey, correlationId)
}
