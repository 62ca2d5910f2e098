package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// SizeLimit rejects request bodies larger than maxBodyBytes with 413.
// Bodies without a declared length are cut off at the limit while being read.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBodyBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
				Error: fmt.Sprintf("Request body larger than %d bytes", maxBodyBytes),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}
