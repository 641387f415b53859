package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func requestWithPrincipal(permissions ...string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	principal := NewPrincipal(7, "ext-7", "user@example.com", "User", 2, "editor", permissions)
	return req.WithContext(ContextWithPrincipal(req.Context(), principal))
}

func TestRequirePermissionWithoutPrincipal(t *testing.T) {
	next, called := okHandler()
	mw := Middleware{}.RequirePermission(PermViewRoles)

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roles", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, *called)
}

func TestRequirePermissionDenied(t *testing.T) {
	next, called := okHandler()
	mw := Middleware{}.RequirePermission(PermCreateRole)

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithPrincipal(PermViewMeeting))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, *called)
}

func TestRequirePermissionGranted(t *testing.T) {
	next, called := okHandler()
	mw := Middleware{}.RequirePermission(PermCreateRole)

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithPrincipal(PermViewMeeting, PermCreateRole))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *called)
}

func TestRequireAnyPermission(t *testing.T) {
	next, called := okHandler()
	mw := Middleware{}.RequireAnyPermission(PermViewAllReports, PermViewOwnReports)

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithPrincipal(PermViewOwnReports))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *called)

	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithPrincipal(PermViewMedia))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
