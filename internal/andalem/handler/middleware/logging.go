package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/pkg/logger"
)

// RequestLog logs one debug line per request.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("[HTTP] %s %s %d %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
