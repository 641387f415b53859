package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/httpx"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// CookieConfig controls how session credentials are mirrored into cookies for
// browser clients. SameSite is stricter in production.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	Secure      bool
	SameSite    http.SameSite
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	cookies   CookieConfig
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cookies CookieConfig) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		cookies:   cookies,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. These are the
// only unauthenticated API routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/google", h.handleGoogleSignIn)
	r.Post("/refresh", h.handleRefresh)
	r.Post("/logout", h.handleLogout)
}

// MountSessionRoutes registers routes that require an authenticated
// principal.
func (h *Handler) MountSessionRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
}

type signInRequest struct {
	Code string `json:"code" validate:"required"`
}

type tokenResponse struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type userResponse struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "code is required")
		return
	}

	pair, ident, err := h.service.SignIn(r.Context(), req.Code)
	if err != nil {
		h.logger.Warn("sign in failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.setSessionCookies(w, pair)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tokens": tokenResponse(pair),
		"user": userResponse{
			ID:          ident.UserID,
			Email:       ident.Email,
			Name:        ident.Name,
			PhotoURL:    ident.PhotoURL,
			Role:        ident.RoleName,
			Permissions: ident.Permissions,
		},
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := ""
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := httpx.DecodeJSON(r, &req); err == nil && req.RefreshToken != "" {
		raw = req.RefreshToken
	} else if cookie, err := r.Cookie(h.cookies.RefreshName); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}

	pair, err := h.service.Refresh(r.Context(), raw)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.setSessionCookies(w, pair)
	httpx.JSON(w, http.StatusOK, tokenResponse(pair))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, h.cookies.AccessName, "/")
	h.clearCookie(w, h.cookies.RefreshName, "/auth")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{
		ID:          principal.UserID,
		Email:       principal.Email,
		Name:        principal.Name,
		Role:        principal.RoleName,
		Permissions: principal.Permissions(),
	})
}

func (h *Handler) setSessionCookies(w http.ResponseWriter, pair TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.AccessName,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.RefreshName,
		Value:    pair.RefreshToken,
		Path:     "/auth",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}

// clearCookie expires a session cookie. The path must match the one the
// cookie was set with or browsers keep the original alive.
func (h *Handler) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}
