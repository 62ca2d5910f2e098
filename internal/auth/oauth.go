package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/Adham-Aroubite/hr-back/internal/config"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// GoogleUserInfoEndpoint is the OpenID Connect userinfo endpoint of Google
const GoogleUserInfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"

const noGoogleAccount = "No active account is registered with this Google email"

// OauthLoginHandler struct holds the authenticator and OAuth2 configuration for handling OAuth login.
type OauthLoginHandler struct {
	*Authenticator
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

type code struct {
	Code string `json:"code" binding:"required"`
}

// NewGoogleOauthConfig builds the OAuth2 client used for Google sign-in
func NewGoogleOauthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: cfg.RedirectURL,
	}
}

// NewOauthLoginHandler creates a new instance of OauthLoginHandler.
func NewOauthLoginHandler(a *Authenticator, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		Authenticator:    a,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

func (h *OauthLoginHandler) getUserInfo(ctx context.Context, authCode string) (model.GoogleUserInfo, error) {
	var uInfo model.GoogleUserInfo

	token, err := h.OauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return uInfo, fmt.Errorf("Failed to receive token: %w", err)
	}

	resp, err := h.OauthConfig.Client(ctx, token).Get(h.UserInfoEndpoint)
	if err != nil {
		return uInfo, fmt.Errorf("Failed to fetch user information: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return uInfo, fmt.Errorf("Failed to fetch user information: status=%d body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&uInfo); err != nil {
		return uInfo, fmt.Errorf("Failed to decode user info: %w", err)
	}
	if uInfo.GID == "" || uInfo.Email == "" {
		return uInfo, errors.New("Google user info has no subject or email")
	}
	return uInfo, nil
}

// GoogleLoginHandler signs in an existing account with a Google authorization code.
// The account is matched by Google id, or by verified email on first use, which links the Google id.
// @Summary Log in with Google
// @Description Only existing active accounts can sign in, registration always goes through /auth/register/
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.AuthResponse "Login success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 400 {object} utilities.FieldErrors "No matching account"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/ [post]
func (h *OauthLoginHandler) GoogleLoginHandler(c *gin.Context) {
	var body code
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("No authorization code provided: %v", err.Error()),
		})
		return
	}

	uInfo, err := h.getUserInfo(c.Request.Context(), body.Code)
	if err != nil {
		LogAuthAttempt("warning", authTypeGoogle, statusFail, "", err.Error())
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var user model.User
	err = db.Where("google_id = ?", uInfo.GID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && uInfo.EmailVerified {
		err = db.Where("email = ? AND google_id IS NULL", strings.TrimSpace(uInfo.Email)).First(&user).Error
		if err == nil {
			err = db.Model(&user).Update("google_id", uInfo.GID).Error
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("info", authTypeGoogle, statusFail, uInfo.Email, "no matching account")
		c.JSON(http.StatusBadRequest, utilities.FieldError(utilities.NonFieldErrors, noGoogleAccount))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %v", err.Error()),
		})
		return
	}

	if !user.IsActive {
		LogAuthAttempt("info", authTypeGoogle, statusFail, uInfo.Email, "inactive account")
		c.JSON(http.StatusBadRequest, utilities.FieldError(utilities.NonFieldErrors, noGoogleAccount))
		return
	}

	token, err := h.issueCredential(c.Request.Context(), nil, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", authTypeGoogle, statusSuccess, uInfo.Email, "")
	c.JSON(http.StatusOK, model.AuthResponse{User: user, Token: token, Message: "Login successful"})
}

// Callback function in Go retrieves a query parameter named "code" from the request and returns it
// in a JSON response.
// @Summary Retrieves a query parameter named "code" from the request and returns it in a JSON response
// @Tags Auth
// @Produce json
// @Param Code query string false "Authentication code from google"
// @Success 200 {object} code
// @Router /auth/google/callback [get]
func (h *OauthLoginHandler) Callback(c *gin.Context) {
	c.JSON(http.StatusOK, code{
		Code: c.Query("code"),
	})
}
