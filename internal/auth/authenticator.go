// Package auth contains handler relate to log in and create user account
package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
)

// ErrInactiveAccount is returned when a live session belongs to a deleted or disabled account
var ErrInactiveAccount = errors.New("account is inactive or no longer exists")

// Authenticator ties credentials, sessions and accounts together.
// It is shared by every auth handler and by the RequireAuth middleware.
type Authenticator struct {
	DB       *database.DBinstanceStruct
	Sessions SessionStore
	Tokens   *TokenIssuer
}

// NewAuthenticator creates an Authenticator
func NewAuthenticator(db *database.DBinstanceStruct, sessions SessionStore, tokens *TokenIssuer) *Authenticator {
	return &Authenticator{
		DB:       db,
		Sessions: sessions,
		Tokens:   tokens,
	}
}

// Authenticate resolves a bearer credential into the requester it belongs to
func (a *Authenticator) Authenticate(ctx context.Context, credential string) (model.Requester, error) {
	sessionID, err := a.Tokens.Parse(credential)
	if err != nil {
		return model.Requester{}, err
	}

	session, err := a.Sessions.Lookup(ctx, sessionID)
	if err != nil {
		return model.Requester{}, err
	}

	db := a.DB.WithContext(ctx)

	var user model.User
	err = db.Where("id = ? AND is_active = ?", session.UserID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Requester{}, ErrInactiveAccount
	}
	if err != nil {
		return model.Requester{}, err
	}

	requester := model.Requester{User: user, SessionID: session.ID}

	var profile model.UserProfile
	err = db.Preload("Company").Where("user_id = ?", user.ID).First(&profile).Error
	switch {
	case err == nil:
		requester.Profile = &profile
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return model.Requester{}, err
	}

	return requester, nil
}

// issueCredential opens or reuses the account's session and signs it.
// A non-nil tx makes the session write part of that transaction.
func (a *Authenticator) issueCredential(ctx context.Context, tx *gorm.DB, user model.User) (string, error) {
	store := a.Sessions
	if tx != nil {
		store = store.WithTx(tx)
	}

	session, err := store.Issue(ctx, user.ID)
	if err != nil {
		return "", err
	}
	return a.Tokens.Sign(session)
}
