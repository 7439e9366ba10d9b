package middleware

import (
	"github.com/gin-gonic/gin"
)

// Revalidate marks responses as cacheable only after revalidation, so
// clients send If-None-Match with the ETag they hold.
func Revalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-cache")
		c.Next()
	}
}
