package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// CurrentTimeFunc is the request clock, replaced in tests.
var CurrentTimeFunc = time.Now

func StartRequest(c *gin.Context) {
	c.Set(RequestStartKey, CurrentTimeFunc())
}
