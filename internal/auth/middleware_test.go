package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
)

func newAuthenticatedStack(t *testing.T) (Authenticator, TokenPair) {
	t.Helper()
	repo := newMemoryAuthRepo()
	svc := newAuthService(repo, stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com", Name: "User"}}, nil)
	pair, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)
	return Authenticator{Service: svc, CookieName: "meetsync_token", Logger: slog.Default()}, pair
}

func principalProbe() (http.Handler, *rbac.Principal) {
	var captured rbac.Principal
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := rbac.PrincipalFromContext(r.Context()); ok {
			captured = p
		}
		w.WriteHeader(http.StatusOK)
	}), &captured
}

func TestAuthenticateFromHeader(t *testing.T) {
	authn, pair := newAuthenticatedStack(t)
	next, captured := principalProbe()

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	authn.Authenticate(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ext-1", captured.ExternalID)
}

func TestAuthenticateFromCookie(t *testing.T) {
	authn, pair := newAuthenticatedStack(t)
	next, captured := principalProbe()

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.AddCookie(&http.Cookie{Name: "meetsync_token", Value: pair.AccessToken})
	rec := httptest.NewRecorder()
	authn.Authenticate(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ext-1", captured.ExternalID)
}

func TestAuthenticateHeaderTakesPrecedenceOverCookie(t *testing.T) {
	authn, pair := newAuthenticatedStack(t)
	next, _ := principalProbe()

	// A malformed header is not salvaged by a valid cookie.
	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Token "+pair.AccessToken)
	req.AddCookie(&http.Cookie{Name: "meetsync_token", Value: pair.AccessToken})
	rec := httptest.NewRecorder()
	authn.Authenticate(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMissingOrInvalidCredential(t *testing.T) {
	authn, _ := newAuthenticatedStack(t)
	next, _ := principalProbe()

	rec := httptest.NewRecorder()
	authn.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	authn.Authenticate(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredCredential(t *testing.T) {
	repo := newMemoryAuthRepo()
	tokens := NewTokenService("secret", time.Hour, 24*time.Hour)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	svc := NewService(repo, tokens, stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com"}}, nil, "no-access", slog.Default())
	pair, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Hour) }
	authn := Authenticator{Service: svc, CookieName: "meetsync_token"}
	next, _ := principalProbe()

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	authn.Authenticate(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
