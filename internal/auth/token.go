package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// TokenKind discriminates access from refresh credentials so one cannot be
// replayed as the other.
type TokenKind string

const (
	// TokenAccess is the short-lived credential presented on every request.
	TokenAccess TokenKind = "access"
	// TokenRefresh is the long-lived credential exchanged for new pairs.
	TokenRefresh TokenKind = "refresh"
)

// Claims is the payload embedded in session credentials. Subject carries the
// external identity id; validity is determined purely by signature and
// expiry, with no server-side session state.
type Claims struct {
	Email string    `json:"email,omitempty"`
	Kind  TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed session credentials.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue signs an access/refresh pair bound to the external identity.
func (s *TokenService) Issue(externalID, email string) (TokenPair, error) {
	now := s.now()
	access, accessExp, err := s.sign(externalID, email, TokenAccess, now, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.sign(externalID, email, TokenRefresh, now, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify validates signature, expiry and kind. Every failure collapses to
// shared.ErrUnauthenticated so callers cannot distinguish which check failed.
func (s *TokenService) Verify(raw string, want TokenKind) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrUnauthenticated
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, shared.ErrUnauthenticated
	}
	if claims.Kind != want || claims.Subject == "" {
		return Claims{}, shared.ErrUnauthenticated
	}
	return claims, nil
}

func (s *TokenService) sign(externalID, email string, kind TokenKind, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return raw, expiresAt, nil
}
