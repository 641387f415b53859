package users

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

type memoryUsersRepo struct {
	users     map[int64]User
	rolePerms map[int64][]string
	nextID    int64
}

func newMemoryUsersRepo() *memoryUsersRepo {
	return &memoryUsersRepo{users: make(map[int64]User), rolePerms: make(map[int64][]string), nextID: 1}
}

func (r *memoryUsersRepo) List(ctx context.Context, limit, offset int) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryUsersRepo) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

func (r *memoryUsersRepo) GetByID(ctx context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryUsersRepo) Create(ctx context.Context, email, name string, roleID int64) (User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return User{}, shared.ErrDuplicate
		}
	}
	u := User{ID: r.nextID, Email: email, Name: name, RoleID: roleID}
	r.users[u.ID] = u
	r.nextID++
	return u, nil
}

func (r *memoryUsersRepo) UpdateRole(ctx context.Context, userID, roleID int64) (User, error) {
	u, ok := r.users[userID]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.RoleID = roleID
	r.users[userID] = u
	return u, nil
}

func (r *memoryUsersRepo) Delete(ctx context.Context, userID int64) error {
	if _, ok := r.users[userID]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *memoryUsersRepo) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	perms, ok := r.rolePerms[roleID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return perms, nil
}

const (
	roleAdmin  = int64(1)
	roleEditor = int64(2)
	roleViewer = int64(3)
)

func newUsersFixture() (*memoryUsersRepo, *Service) {
	repo := newMemoryUsersRepo()
	repo.rolePerms[roleAdmin] = []string{rbac.PermCreateUser, rbac.PermEditUser, rbac.PermDeleteUser}
	repo.rolePerms[roleEditor] = []string{rbac.PermCreateMeeting, rbac.PermViewAllReports}
	repo.rolePerms[roleViewer] = []string{rbac.PermViewMeeting}
	svc := NewService(repo, rbac.DefaultCatalog(), nil, slog.Default())
	return repo, svc
}

func requester(roleID int64) rbac.Principal {
	return rbac.NewPrincipal(100, "ext-req", "req@example.com", "Requester", roleID, "requester", nil)
}

func TestAddUserWithDominatedRole(t *testing.T) {
	_, svc := newUsersFixture()

	user, err := svc.Add(context.Background(), requester(roleAdmin), "New@Example.com ", "New User", roleEditor)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, roleEditor, user.RoleID)
}

func TestAddUserEscalationDenied(t *testing.T) {
	repo, svc := newUsersFixture()

	_, err := svc.Add(context.Background(), requester(roleEditor), "new@example.com", "New User", roleAdmin)
	require.ErrorIs(t, err, shared.ErrPrivilegeEscalation)
	require.Empty(t, repo.users)
}

func TestAddUserValidationAndDuplicate(t *testing.T) {
	_, svc := newUsersFixture()

	_, err := svc.Add(context.Background(), requester(roleAdmin), "", "Name", roleViewer)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Add(context.Background(), requester(roleAdmin), "dup@example.com", "First", roleViewer)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), requester(roleAdmin), "dup@example.com", "Second", roleViewer)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestChangeRoleGuardRecomputesPerCall(t *testing.T) {
	repo, svc := newUsersFixture()
	user, err := svc.Add(context.Background(), requester(roleAdmin), "user@example.com", "User", roleViewer)
	require.NoError(t, err)

	_, err = svc.ChangeRole(context.Background(), requester(roleEditor), user.ID, roleAdmin)
	require.ErrorIs(t, err, shared.ErrPrivilegeEscalation)

	// The same requester succeeds once their role's permissions grow; the
	// guard reads current role contents, not a cached snapshot.
	repo.rolePerms[roleEditor] = []string{rbac.PermCreateUser}
	updated, err := svc.ChangeRole(context.Background(), requester(roleEditor), user.ID, roleAdmin)
	require.NoError(t, err)
	require.Equal(t, roleAdmin, updated.RoleID)
}

func TestListUsersPaginates(t *testing.T) {
	_, svc := newUsersFixture()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Add(context.Background(), requester(roleAdmin), email, "User", roleViewer)
		require.NoError(t, err)
	}

	page, p, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "c@example.com", page[0].Email)
	require.Equal(t, 3, p.Total)
	require.Equal(t, 2, p.TotalPages)
}

func TestDeleteUserHasNoEscalationGuard(t *testing.T) {
	repo, svc := newUsersFixture()
	admin, err := svc.Add(context.Background(), requester(roleAdmin), "admin@example.com", "Admin", roleAdmin)
	require.NoError(t, err)

	// A low-privilege principal holding deleteUser may remove an admin.
	require.NoError(t, svc.Delete(context.Background(), requester(roleViewer), admin.ID))
	_, err = repo.GetByID(context.Background(), admin.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.ErrorIs(t, svc.Delete(context.Background(), requester(roleViewer), admin.ID), shared.ErrNotFound)
}
