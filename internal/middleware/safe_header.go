package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SafeHeader adds security-related headers to each response.
// Swagger assets stay cacheable, every other response is marked no-store.
func SafeHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if !strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Cache-Control", "no-store")
		}
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Next()
	}
}
