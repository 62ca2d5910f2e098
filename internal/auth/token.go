package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Adham-Aroubite/hr-back/internal/model"
)

// ErrInvalidToken is returned for credentials that fail signature, expiry or issuer checks
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs sessions into bearer credentials and verifies them again.
// The claims are derived from the stored session only, so signing the same
// session twice produces the same string.
type TokenIssuer struct {
	secret []byte
	issuer string
}

// NewTokenIssuer creates a TokenIssuer for HS256 credentials
func NewTokenIssuer(secret string, issuer string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer}
}

// Sign encodes the session as a credential whose jti is the session id
func (t *TokenIssuer) Sign(s model.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        s.ID.String(),
		Issuer:    t.issuer,
		Subject:   s.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a credential and returns the session id it refers to
func (t *TokenIssuer) Parse(encoded string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(encoded, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(t.issuer, true) || claims.ExpiresAt == nil {
		return uuid.Nil, ErrInvalidToken
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return sessionID, nil
}
