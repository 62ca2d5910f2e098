package auth

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// GetAccessToken is a helper function to obtain an access token for a user by simulating a login API call.
// It returns the token from the login response and any error encountered during the process.
func GetAccessToken(
	t *testing.T,
	a *Authenticator,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(a)
	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/auth/login/", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	token, ok := resp["token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("login Failed: no token in response: %s", rec.Body.String())
	}
	return token, nil
}
