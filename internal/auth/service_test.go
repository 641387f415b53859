package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

type memoryAuthRepo struct {
	identities map[string]*Identity
	nextID     int64
	created    int
	credCalls  int
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{identities: make(map[string]*Identity), nextID: 1}
}

func (r *memoryAuthRepo) FindByExternalID(ctx context.Context, externalID string) (*Identity, error) {
	ident, ok := r.identities[externalID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copy := *ident
	return &copy, nil
}

func (r *memoryAuthRepo) CreateFromExternal(ctx context.Context, ext ExternalIdentity, roleName string) (*Identity, error) {
	if roleName != "no-access" {
		return nil, shared.ErrInvariant
	}
	ident := &Identity{
		UserID:      r.nextID,
		ExternalID:  ext.ID,
		Email:       ext.Email,
		Name:        ext.Name,
		RoleID:      99,
		RoleName:    roleName,
		Permissions: []string{},
	}
	r.nextID++
	r.created++
	r.identities[ext.ID] = ident
	copy := *ident
	return &copy, nil
}

func (r *memoryAuthRepo) UpdateProviderCredentials(ctx context.Context, userID int64, access, refresh string) error {
	r.credCalls++
	return nil
}

type stubVerifier struct {
	identity ExternalIdentity
	err      error
}

func (v stubVerifier) Verify(ctx context.Context, code string) (ExternalIdentity, error) {
	if v.err != nil {
		return ExternalIdentity{}, v.err
	}
	return v.identity, nil
}

type countingNotifier struct {
	calls []string
}

func (n *countingNotifier) UserProvisioned(ctx context.Context, externalID, email string) error {
	n.calls = append(n.calls, externalID)
	return nil
}

func newAuthService(repo Repository, verifier ExternalVerifier, notifier Notifier) *Service {
	tokens := NewTokenService("secret", time.Hour, 24*time.Hour)
	return NewService(repo, tokens, verifier, notifier, "no-access", slog.Default())
}

func TestSignInProvisionsFirstTimeIdentity(t *testing.T) {
	repo := newMemoryAuthRepo()
	notifier := &countingNotifier{}
	svc := newAuthService(repo, stubVerifier{identity: ExternalIdentity{
		ID: "ext-1", Email: "new@example.com", Name: "New User", AccessToken: "at", RefreshToken: "rt",
	}}, notifier)

	pair, ident, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, "no-access", ident.RoleName)
	require.Empty(t, ident.Permissions)
	require.Equal(t, 1, repo.created)
	require.Equal(t, []string{"ext-1"}, notifier.calls)
}

func TestSignInExistingIdentityDoesNotNotify(t *testing.T) {
	repo := newMemoryAuthRepo()
	notifier := &countingNotifier{}
	verifier := stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com", Name: "User"}}
	svc := newAuthService(repo, verifier, notifier)

	_, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)
	_, _, err = svc.SignIn(context.Background(), "code")
	require.NoError(t, err)

	require.Equal(t, 1, repo.created)
	require.Len(t, notifier.calls, 1)
	// Returning users get their provider credentials refreshed.
	require.Equal(t, 1, repo.credCalls)
}

func TestSignInRejectedProviderCode(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newAuthService(repo, stubVerifier{err: shared.ErrUnauthenticated}, &countingNotifier{})

	_, _, err := svc.SignIn(context.Background(), "bad-code")
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
	require.Equal(t, 0, repo.created)
}

func TestRefreshReResolvesIdentity(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newAuthService(repo, stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com"}}, nil)

	pair, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, renewed.AccessToken)

	// A deleted user cannot renew even with a valid refresh credential.
	delete(repo.identities, "ext-1")
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestRefreshRejectsAccessTokenAsRefresh(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newAuthService(repo, stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com"}}, nil)

	pair, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestResolveBuildsPrincipal(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newAuthService(repo, stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com", Name: "User"}}, nil)

	pair, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)

	repo.identities["ext-1"].RoleName = "editor"
	repo.identities["ext-1"].Permissions = []string{"viewMeeting", "createMeeting"}

	principal, err := svc.Resolve(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ext-1", principal.ExternalID)
	require.Equal(t, "editor", principal.RoleName)
	require.True(t, principal.Has("createMeeting"))
	require.False(t, principal.Has("deleteRole"))
	require.Equal(t, pair.AccessToken, principal.RawCredential)
}

func TestResolveUnknownIdentityIsUnauthenticated(t *testing.T) {
	repo := newMemoryAuthRepo()
	svc := newAuthService(repo, stubVerifier{identity: ExternalIdentity{ID: "ext-1", Email: "user@example.com"}}, nil)

	pair, _, err := svc.SignIn(context.Background(), "code")
	require.NoError(t, err)

	delete(repo.identities, "ext-1")
	_, err = svc.Resolve(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}
