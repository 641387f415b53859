package rbac

// Principal describes the authenticated actor. The role name and permission
// set are resolved eagerly at authentication time so authorization checks are
// O(1) set-membership tests, with no store reads.
type Principal struct {
	UserID      int64
	ExternalID  string
	Email       string
	Name        string
	RoleID      int64
	RoleName    string
	permissions map[string]struct{}
	perms       []string

	// RawCredential carries the verified bearer token for downstream reuse,
	// such as calling Google APIs on the principal's behalf.
	RawCredential string
}

// NewPrincipal constructs a Principal with its permission set.
func NewPrincipal(userID int64, externalID, email, name string, roleID int64, roleName string, permissions []string) Principal {
	set := make(map[string]struct{}, len(permissions))
	perms := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := set[p]; ok {
			continue
		}
		set[p] = struct{}{}
		perms = append(perms, p)
	}
	return Principal{
		UserID:      userID,
		ExternalID:  externalID,
		Email:       email,
		Name:        name,
		RoleID:      roleID,
		RoleName:    roleName,
		permissions: set,
		perms:       perms,
	}
}

// Has reports whether the principal holds the permission.
func (p Principal) Has(permission string) bool {
	_, ok := p.permissions[permission]
	return ok
}

// Permissions returns the principal's permission names.
func (p Principal) Permissions() []string {
	return p.perms
}
