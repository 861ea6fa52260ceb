package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger records method, path, client IP, status and latency per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		method := c.Request.Method
		clientIP := c.ClientIP()
		log.Printf("%s %s %s %d %s", method, path, clientIP, status, latency)
	}
}
