package roles

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// AuditRecorder persists audit trail entries for role mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles role business logic. All escalation checks are recomputed
// per call against the requester's current permission set; nothing is cached
// between requests.
type Service struct {
	repo          RepositoryPort
	catalog       rbac.Catalog
	fallbackRole  string
	bootstrapRole string
	audit         AuditRecorder
	logger        *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, catalog rbac.Catalog, fallbackRole, bootstrapRole string, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		catalog:       catalog,
		fallbackRole:  fallbackRole,
		bootstrapRole: bootstrapRole,
		audit:         audit,
		logger:        logger,
	}
}

// List returns all roles except the reserved bootstrap role. Hiding it is a
// listing filter, not an access control: the escalation guard is what
// prevents its permissions from being granted.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]Role, 0, len(all))
	for _, role := range all {
		if role.Name == s.bootstrapRole {
			continue
		}
		visible = append(visible, role)
	}
	return visible, nil
}

// Get fetches a role by ID.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a role after the escalation guard passes. A role whose name
// already exists has its permission set replaced rather than erroring:
// re-posting a role definition converges instead of conflicting.
func (s *Service) Create(ctx context.Context, requester rbac.Principal, name string, permissions []string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, shared.ErrValidation
	}
	permissions = dedupe(permissions)
	if !s.catalog.CanGrant(requester.Permissions(), permissions) {
		return Role{}, shared.ErrPrivilegeEscalation
	}
	role, err := s.repo.Upsert(ctx, name, permissions)
	if err != nil {
		return Role{}, err
	}
	s.recordAudit(ctx, requester, "role.create", role)
	return role, nil
}

// Update edits an existing role under the same escalation guard.
func (s *Service) Update(ctx context.Context, requester rbac.Principal, id int64, name string, permissions []string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, shared.ErrValidation
	}
	permissions = dedupe(permissions)
	if !s.catalog.CanGrant(requester.Permissions(), permissions) {
		return Role{}, shared.ErrPrivilegeEscalation
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Role{}, err
	}
	role, err := s.repo.Update(ctx, id, name, permissions)
	if err != nil {
		return Role{}, err
	}
	s.recordAudit(ctx, requester, "role.update", role)
	return role, nil
}

// Delete removes a role, reassigning all referencing users to the no-access
// fallback role in the same transaction.
func (s *Service) Delete(ctx context.Context, requester rbac.Principal, id int64) error {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWithReassign(ctx, id, s.fallbackRole); err != nil {
		return err
	}
	s.recordAudit(ctx, requester, "role.delete", role)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, requester rbac.Principal, action string, role Role) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  requester.UserID,
		Action:   action,
		Entity:   "role",
		EntityID: strconv.FormatInt(role.ID, 10),
		Meta:     map[string]any{"name": role.Name, "permissions": role.Permissions},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}

func dedupe(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
