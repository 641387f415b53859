package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// ExternalVerifier exchanges a provider authorization code for a verified
// external identity. The remote semantics live behind this port.
type ExternalVerifier interface {
	Verify(ctx context.Context, code string) (ExternalIdentity, error)
}

// Notifier fires the administrative side effect when a new user is
// auto-provisioned. Implementations must be idempotent per identity.
type Notifier interface {
	UserProvisioned(ctx context.Context, externalID, email string) error
}

// Service wraps sign-in, token refresh and per-request identity resolution.
type Service struct {
	repo         Repository
	tokens       *TokenService
	verifier     ExternalVerifier
	notifier     Notifier
	fallbackRole string
	logger       *slog.Logger
}

// NewService constructs a Service. fallbackRole names the no-access role new
// identities are bound to.
func NewService(repo Repository, tokens *TokenService, verifier ExternalVerifier, notifier Notifier, fallbackRole string, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		verifier:     verifier,
		notifier:     notifier,
		fallbackRole: fallbackRole,
		logger:       logger,
	}
}

// SignIn verifies the provider code, provisions first-time identities onto
// the no-access role, stores refreshed provider credentials, and issues a
// session token pair. This auto-provisioning path is the only one that
// creates a user without the escalation-guarded directory call; it can only
// ever bind the no-access role, so there is no capability to escalate to.
func (s *Service) SignIn(ctx context.Context, code string) (TokenPair, *Identity, error) {
	ext, err := s.verifier.Verify(ctx, code)
	if err != nil {
		return TokenPair{}, nil, shared.ErrUnauthenticated
	}

	ident, err := s.repo.FindByExternalID(ctx, ext.ID)
	switch {
	case err == nil:
		if err := s.repo.UpdateProviderCredentials(ctx, ident.UserID, ext.AccessToken, ext.RefreshToken); err != nil {
			s.logger.Warn("store provider credentials", slog.Any("error", err))
		}
	case errors.Is(err, shared.ErrNotFound):
		ident, err = s.repo.CreateFromExternal(ctx, ext, s.fallbackRole)
		if err != nil {
			return TokenPair{}, nil, err
		}
		if s.notifier != nil {
			if err := s.notifier.UserProvisioned(ctx, ident.ExternalID, ident.Email); err != nil {
				s.logger.Warn("admin notification", slog.Any("error", err))
			}
		}
	default:
		return TokenPair{}, nil, err
	}

	pair, err := s.tokens.Issue(ident.ExternalID, ident.Email)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, ident, nil
}

// Refresh exchanges a valid refresh credential for a new token pair. The
// identity is re-resolved so a user deleted since issuance cannot renew.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return TokenPair{}, shared.ErrUnauthenticated
	}
	ident, err := s.repo.FindByExternalID(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, shared.ErrUnauthenticated
	}
	return s.tokens.Issue(ident.ExternalID, ident.Email)
}

// Resolve is the verify-then-load pipeline behind the authentication
// middleware: verify signature and expiry, look up the embedded identity,
// and build a principal carrying the role name and permission set. Every
// failure collapses to ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, raw string) (rbac.Principal, error) {
	claims, err := s.tokens.Verify(raw, TokenAccess)
	if err != nil {
		return rbac.Principal{}, shared.ErrUnauthenticated
	}
	ident, err := s.repo.FindByExternalID(ctx, claims.Subject)
	if err != nil {
		// A verified credential whose identity has no matching user is still
		// an authentication failure, never a crash or a 404.
		return rbac.Principal{}, shared.ErrUnauthenticated
	}
	principal := rbac.NewPrincipal(ident.UserID, ident.ExternalID, ident.Email, ident.Name, ident.RoleID, ident.RoleName, ident.Permissions)
	principal.RawCredential = raw
	return principal, nil
}
