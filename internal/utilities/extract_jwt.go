package utilities

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrNoBearerToken is returned when the Authorization header carries no bearer credential
var ErrNoBearerToken = errors.New("Authorization header is missing or malformed")

// ExtractBearerToken returns the credential of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func ExtractBearerToken(c *gin.Context) (string, error) {
	const bearerSchema = "bearer "
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

	if len(authHeader) <= len(bearerSchema) || !strings.EqualFold(authHeader[:len(bearerSchema)], bearerSchema) {
		return "", ErrNoBearerToken
	}

	token := strings.TrimSpace(authHeader[len(bearerSchema):])
	if token == "" {
		return "", ErrNoBearerToken
	}
	return token, nil
}
