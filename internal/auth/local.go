package auth

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

const invalidCredentials = "Invalid email or password"

var (
	errInvalidCompanyCode = errors.New("Invalid or inactive company code")
	usernamePattern       = regexp.MustCompile(`^[\w.@+-]+$`)
)

// LocalAuthHandler serves email and password based registration and login
type LocalAuthHandler struct {
	*Authenticator
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler
func NewLocalAuthHandler(a *Authenticator) *LocalAuthHandler {
	return &LocalAuthHandler{Authenticator: a}
}

type registerInfo struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	UserType        string `json:"user_type"`
	CompanyCode     string `json:"company_code"`
}

func (r registerInfo) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150),
			validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_")),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.PasswordConfirm, validation.Required),
		validation.Field(&r.UserType, validation.Required, validation.In(model.UserTypes...)),
	)
}

type loginInfo struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l loginInfo) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Email, validation.Required),
		validation.Field(&l.Password, validation.Required),
	)
}

// LocalRegisterHandler creates an account, its profile and a session in one transaction.
// HR users must quote the registration code of an active company.
// @Summary Register a new HR member or candidate
// @Description Password and password_confirm must match. HR users must provide the registration code of an active company.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "user_type is HR or CANDIDATE"
// @Success 201 {object} model.AuthResponse "Account created"
// @Failure 400 {object} utilities.FieldErrors "Validation failed"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register/ [post]
func (lh *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	info.Username = strings.TrimSpace(info.Username)
	info.Email = strings.TrimSpace(info.Email)
	info.CompanyCode = strings.TrimSpace(info.CompanyCode)

	if info.Password != info.PasswordConfirm {
		c.JSON(http.StatusBadRequest, utilities.FieldError("password", "Password fields didn't match"))
		return
	}

	if err := info.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	if info.UserType == model.RoleHR && info.CompanyCode == "" {
		c.JSON(http.StatusBadRequest, utilities.FieldError("company_code", "Company code is required for HR users"))
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	var resp model.AuthResponse
	err = lh.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var companyID *uint
		if info.UserType == model.RoleHR {
			var company model.Company
			err := tx.Where("registration_code = ? AND is_active = ?", info.CompanyCode, true).First(&company).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvalidCompanyCode
			}
			if err != nil {
				return err
			}
			companyID = &company.ID
		}

		user := model.User{
			Username:  info.Username,
			Email:     info.Email,
			FirstName: info.FirstName,
			LastName:  info.LastName,
			Password:  hashedPassword,
			IsActive:  true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := model.UserProfile{
			UserID:    user.ID,
			UserType:  info.UserType,
			CompanyID: companyID,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		token, err := lh.issueCredential(c.Request.Context(), tx, user)
		if err != nil {
			return err
		}

		resp = model.AuthResponse{User: user, Token: token, Message: "User registered successfully"}
		return nil
	})

	if err != nil {
		LogAuthAttempt("info", authTypeLocal, statusFail, info.Username, err.Error())

		if errors.Is(err, errInvalidCompanyCode) {
			c.JSON(http.StatusBadRequest, utilities.FieldError("company_code", errInvalidCompanyCode.Error()))
			return
		}
		if constraint, ok := utilities.UniqueViolation(err); ok {
			c.JSON(http.StatusBadRequest, uniqueFieldError(constraint))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", authTypeLocal, statusSuccess, info.Username, "registered as "+info.UserType)
	c.JSON(http.StatusCreated, resp)
}

// LocalLoginHandler authenticates by email and password.
// Unknown email, wrong password and inactive account are reported the same way.
// @Summary Log in with email and password
// @Description Reuses the account's unexpired session, so repeated logins return the same token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse "Login success"
// @Failure 400 {object} utilities.FieldErrors "Missing fields or invalid credentials"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login/ [post]
func (lh *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	info.Email = strings.TrimSpace(info.Email)

	if err := info.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	var user model.User
	err := lh.DB.WithContext(c.Request.Context()).Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("info", authTypeLocal, statusFail, info.Email, "unknown email")
		c.JSON(http.StatusBadRequest, utilities.FieldError(utilities.NonFieldErrors, invalidCredentials))
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if !user.IsActive || !utilities.CheckPassword(user.Password, info.Password) {
		LogAuthAttempt("info", authTypeLocal, statusFail, info.Email, "bad password or inactive account")
		c.JSON(http.StatusBadRequest, utilities.FieldError(utilities.NonFieldErrors, invalidCredentials))
		return
	}

	token, err := lh.issueCredential(c.Request.Context(), nil, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", authTypeLocal, statusSuccess, info.Email, "")
	c.JSON(http.StatusOK, model.AuthResponse{User: user, Token: token, Message: "Login successful"})
}

// uniqueFieldError maps a violated unique index of the users table to the offending field
func uniqueFieldError(constraint string) utilities.FieldErrors {
	switch {
	case strings.Contains(constraint, "email"):
		return utilities.FieldError("email", "A user with that email already exists")
	case strings.Contains(constraint, "username"):
		return utilities.FieldError("username", "A user with that username already exists")
	default:
		return utilities.FieldError(utilities.NonFieldErrors, "Account already exists")
	}
}
