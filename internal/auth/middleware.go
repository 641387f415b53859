package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/httpx"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// Authenticator resolves the bearer credential on every request and attaches
// the principal to the context. It must run before rbac.Middleware.
type Authenticator struct {
	Service    *Service
	CookieName string
	Logger     *slog.Logger
}

// Authenticate rejects requests without a resolvable credential. The token is
// read from the Authorization header first, then from the cookie.
func (a Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := a.extractToken(r)
		if raw == "" {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		principal, err := a.Service.Resolve(r.Context(), raw)
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		ctx := rbac.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a Authenticator) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(header[len(prefix):])
		}
		return ""
	}
	if cookie, err := r.Cookie(a.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
