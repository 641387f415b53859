package users

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// AuditRecorder persists audit trail entries for directory mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user directory business logic.
type Service struct {
	repo    RepositoryPort
	catalog rbac.Catalog
	audit   AuditRecorder
	logger  *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, catalog rbac.Catalog, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, audit: audit, logger: logger}
}

// List returns a page of users plus pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	p := shared.NewPagination(page, perPage, total)
	users, err := s.repo.List(ctx, p.PerPage, (p.Page-1)*p.PerPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, p, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Add creates a directory-managed user with an assigned role. Guarded by
// CanAssignRole: the requester's role must dominate the target role.
func (s *Service) Add(ctx context.Context, requester rbac.Principal, email, name string, roleID int64) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return User{}, shared.ErrValidation
	}
	if err := s.CanAssignRole(ctx, requester.RoleID, roleID); err != nil {
		return User{}, err
	}
	user, err := s.repo.Create(ctx, email, name, roleID)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, requester, "user.create", user)
	return user, nil
}

// ChangeRole reassigns a user's role under the same guard as Add.
func (s *Service) ChangeRole(ctx context.Context, requester rbac.Principal, userID, roleID int64) (User, error) {
	if err := s.CanAssignRole(ctx, requester.RoleID, roleID); err != nil {
		return User{}, err
	}
	user, err := s.repo.UpdateRole(ctx, userID, roleID)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, requester, "user.change_role", user)
	return user, nil
}

// Delete removes a user record. Deletion carries no escalation guard: any
// principal holding the deleteUser permission may remove any user, including
// ones whose role outranks their own. Kept as observed behavior; see
// DESIGN.md before tightening.
func (s *Service) Delete(ctx context.Context, requester rbac.Principal, userID int64) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.recordAudit(ctx, requester, "user.delete", user)
	return nil
}

// CanAssignRole loads both roles' current permission sets and compares their
// maximum privilege levels. Both loads happen per call; role contents can
// change between requests and a cached comparison would go stale.
func (s *Service) CanAssignRole(ctx context.Context, requesterRoleID, targetRoleID int64) error {
	requesterPerms, err := s.repo.RolePermissions(ctx, requesterRoleID)
	if err != nil {
		return err
	}
	targetPerms, err := s.repo.RolePermissions(ctx, targetRoleID)
	if err != nil {
		return err
	}
	if !s.catalog.CanGrant(requesterPerms, targetPerms) {
		return shared.ErrPrivilegeEscalation
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, requester rbac.Principal, action string, user User) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  requester.UserID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(user.ID, 10),
		Meta:     map[string]any{"email": user.Email, "role_id": user.RoleID},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
