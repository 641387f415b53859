package rbac

import (
	"log/slog"
	"net/http"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/httpx"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. It assumes the
// authentication middleware ran first and populated the principal; a missing
// principal is rejected rather than re-verified here.
type Middleware struct {
	Logger *slog.Logger
}

// RequirePermission ensures the current principal holds the permission.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			if !principal.Has(permission) {
				if m.Logger != nil {
					m.Logger.Warn("permission denied",
						slog.Int64("user_id", principal.UserID),
						slog.String("permission", permission),
						slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission ensures the current principal holds at least one of
// the listed permissions.
func (m Middleware) RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			for _, permission := range permissions {
				if principal.Has(permission) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("permission denied",
					slog.Int64("user_id", principal.UserID),
					slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, shared.ErrForbidden)
		})
	}
}
