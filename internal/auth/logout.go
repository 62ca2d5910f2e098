package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// LogoutController handles user logout by revoking the caller's session
type LogoutController struct {
	Sessions SessionStore
}

// NewLogoutController creates a new instance of LogoutController
func NewLogoutController(sessions SessionStore) *LogoutController {
	return &LogoutController{
		Sessions: sessions,
	}
}

// LogoutHandler deletes the session behind the bearer credential
// @Summary Log out
// @Description The credential stops authenticating once this returns
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.MessageResponse "Logged out"
// @Failure 400 {object} utilities.ErrorResponse "No session to revoke"
// @Failure 401 {object} utilities.ErrorResponse "Missing or invalid credential"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/logout/ [post]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	err = lc.Sessions.Revoke(c.Request.Context(), requester.SessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "User was not logged in"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to logout: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", authTypeLocal, "Logout", requester.User.Email, "")
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Successfully logged out"})
}

// MeHandler returns the authenticated account with its profile
// @Summary Current user
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.MeResponse "Account and profile, profile is null when absent"
// @Failure 401 {object} utilities.ErrorResponse "Missing or invalid credential"
// @Router /auth/me/ [get]
func MeHandler(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.MeResponse{
		User:    requester.User,
		Profile: requester.Profile,
	})
}
