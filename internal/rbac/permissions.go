package rbac

// Platform permissions. Each protected operation declares exactly one of
// these; the catalog assigns each to a privilege level.
const (
	PermViewMeeting    = "viewMeeting"
	PermViewOwnReports = "viewOwnReports"

	PermViewMedia = "viewMedia"

	PermCreateMeeting  = "createMeeting"
	PermEditMeeting    = "editMeeting"
	PermDeleteMeeting  = "deleteMeeting"
	PermViewAllReports = "viewAllReports"

	PermViewAllUsers  = "viewAllUsers"
	PermViewRoles     = "viewRoles"
	PermTransferMedia = "transferMedia"

	PermCreateUser = "createUser"
	PermEditUser   = "editUser"
	PermDeleteUser = "deleteUser"
	PermCreateRole = "createRole"
	PermEditRole   = "editRole"
	PermDeleteRole = "deleteRole"
)

// DefaultCatalog returns the production privilege tiers. Administrators
// reason about tiers of access rather than per-permission precedence, so
// permissions are partitioned into ordered levels.
func DefaultCatalog() Catalog {
	return NewCatalog(map[int][]string{
		1: {PermViewMeeting, PermViewOwnReports},
		2: {PermViewMedia},
		3: {PermCreateMeeting, PermEditMeeting, PermDeleteMeeting, PermViewAllReports},
		4: {PermViewAllUsers, PermViewRoles, PermTransferMedia},
		5: {PermCreateUser, PermEditUser, PermDeleteUser, PermCreateRole, PermEditRole, PermDeleteRole},
	})
}
