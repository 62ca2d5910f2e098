package model

// AuthResponse is returned by every flow that hands out a credential
type AuthResponse struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// MeResponse describes the authenticated account
type MeResponse struct {
	User    User         `json:"user"`
	Profile *UserProfile `json:"profile"`
}

// GoogleUserInfo is the subset of the Google userinfo payload used for sign-in
type GoogleUserInfo struct {
	GID           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}
