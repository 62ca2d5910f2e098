// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adham-Aroubite/hr-back/internal/auth"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// RequireAuth validates the bearer credential, resolves its session and account
// and stores the resulting model.Requester in the context. Every failure is a 401.
func RequireAuth(a *auth.Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		requester, err := a.Authenticate(ctx.Request.Context(), tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: authFailureMessage(err),
			})
			return
		}

		ctx.Set(utilities.RequesterKey, requester)
		ctx.Next()
	}
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid or expired access token"
	case errors.Is(err, auth.ErrSessionNotFound):
		return "Session expired or logged out"
	case errors.Is(err, auth.ErrInactiveAccount):
		return "User not exist"
	default:
		return fmt.Sprintf("Failed to authenticate: %s", err.Error())
	}
}
