package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/auth"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthConfig holds the client registration for the Google consent flow.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Verifier exchanges authorization codes with Google and resolves the
// verified profile. It implements the sign-in provider port.
type Verifier struct {
	config *oauth2.Config
}

// NewVerifier builds a Verifier with calendar and drive scopes so stored
// credentials can drive scheduling and media sync later.
func NewVerifier(cfg OAuthConfig) *Verifier {
	return &Verifier{config: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     googleoauth.Endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/calendar.events",
			"https://www.googleapis.com/auth/drive.readonly",
		},
	}}
}

type userinfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verify exchanges the code for tokens and loads the user's profile.
func (v *Verifier) Verify(ctx context.Context, code string) (auth.ExternalIdentity, error) {
	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		return auth.ExternalIdentity{}, fmt.Errorf("exchange code: %w", shared.ErrUnauthenticated)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return auth.ExternalIdentity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return auth.ExternalIdentity{}, fmt.Errorf("userinfo status %d: %w", resp.StatusCode, shared.ErrUnauthenticated)
	}

	var info userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return auth.ExternalIdentity{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return auth.ExternalIdentity{
		ID:           info.ID,
		Email:        info.Email,
		Name:         info.Name,
		PhotoURL:     info.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// clientFor builds an authorized HTTP client from stored user credentials.
// The refresh token lets the oauth2 transport renew expired access tokens.
func (v *Verifier) clientFor(ctx context.Context, accessToken, refreshToken string) *http.Client {
	token := &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken}
	return oauth2.NewClient(ctx, v.config.TokenSource(ctx, token))
}
