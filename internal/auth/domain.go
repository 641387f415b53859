package auth

import "time"

// Identity is a user record with its role and permission set resolved, the
// shape the authentication pipeline loads on every request.
type Identity struct {
	UserID      int64
	ExternalID  string
	Email       string
	Name        string
	PhotoURL    string
	RoleID      int64
	RoleName    string
	Permissions []string
}

// ExternalIdentity is the result of verifying a sign-in with the external
// provider. AccessToken and RefreshToken are the provider's credentials,
// stored so calendar and drive calls can act on the user's behalf.
type ExternalIdentity struct {
	ID           string
	Email        string
	Name         string
	PhotoURL     string
	AccessToken  string
	RefreshToken string
}

// TokenPair carries the signed session credentials issued to a client.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
