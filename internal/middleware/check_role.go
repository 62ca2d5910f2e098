package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// CheckRole will protect endpoint from user whose profile is not one of the given user types
func CheckRole(userTypes ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requester, err := utilities.ExtractRequester(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if !utilities.Contains(userTypes, requester.Role()) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "User doesn't have permission to access",
			})
			return
		}

		ctx.Next()
	}
}
