package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	_ "github.com/phaserunner03/meetAndMediaSync-sub000/testing"
)

func newCookieHandler() *Handler {
	return NewHandler(slog.Default(), nil, CookieConfig{
		AccessName:  "meetsync_token",
		RefreshName: "meetsync_refresh",
		SameSite:    http.SameSiteLaxMode,
	})
}

func TestLogoutClearsBothCookiesOnTheirOwnPaths(t *testing.T) {
	h := newCookieHandler()
	r := chi.NewRouter()
	h.MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access, ok := byName["meetsync_token"]
	require.True(t, ok)
	require.Equal(t, "/", access.Path)
	require.Negative(t, access.MaxAge)

	// The refresh cookie is scoped to /auth when set; clearing it on any
	// other path leaves the original cookie in the browser.
	refresh, ok := byName["meetsync_refresh"]
	require.True(t, ok)
	require.Equal(t, "/auth", refresh.Path)
	require.Negative(t, refresh.MaxAge)
}

func TestSessionCookiePathsMatchLogout(t *testing.T) {
	h := newCookieHandler()

	rec := httptest.NewRecorder()
	h.setSessionCookies(rec, TokenPair{AccessToken: "a", RefreshToken: "r"})

	paths := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		paths[c.Name] = c.Path
	}
	require.Equal(t, "/", paths["meetsync_token"])
	require.Equal(t, "/auth", paths["meetsync_refresh"])
}
