package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return NewCatalog(map[int][]string{
		1: {"viewMeeting", "viewOwnReports"},
		2: {"viewMedia"},
		3: {"createMeeting", "editMeeting", "deleteMeeting", "viewAllReports"},
		4: {"viewAllUsers", "viewRoles", "transferMedia"},
		5: {"createUser", "editUser", "deleteUser", "createRole", "editRole", "deleteRole"},
	})
}

func TestLevelOfKnownPermissions(t *testing.T) {
	catalog := testCatalog()
	require.Equal(t, 1, catalog.LevelOf("viewMeeting"))
	require.Equal(t, 3, catalog.LevelOf("deleteMeeting"))
	require.Equal(t, 5, catalog.LevelOf("deleteRole"))
}

func TestLevelOfUnknownPermissionReturnsSentinel(t *testing.T) {
	catalog := testCatalog()
	require.Equal(t, SentinelLevel, catalog.LevelOf("launchMissiles"))
	require.Equal(t, SentinelLevel, catalog.LevelOf(""))
}

func TestMaxLevel(t *testing.T) {
	catalog := testCatalog()
	require.Equal(t, SentinelLevel, catalog.MaxLevel(nil))
	require.Equal(t, 1, catalog.MaxLevel([]string{"viewMeeting"}))
	require.Equal(t, 5, catalog.MaxLevel([]string{"viewMeeting", "createUser"}))
	// Unknown permissions never raise the maximum.
	require.Equal(t, 2, catalog.MaxLevel([]string{"viewMedia", "bogus"}))
}

func TestCanGrant(t *testing.T) {
	catalog := testCatalog()
	editor := []string{"viewMeeting", "createMeeting", "viewAllReports"}
	admin := []string{"viewMeeting", "createUser", "createRole"}

	require.True(t, catalog.CanGrant(admin, editor))
	require.False(t, catalog.CanGrant(editor, admin))
	require.True(t, catalog.CanGrant(editor, editor))
	// An empty assignment is always grantable.
	require.True(t, catalog.CanGrant(editor, nil))
	// Nobody with an empty set can grant a real permission.
	require.False(t, catalog.CanGrant(nil, []string{"viewMeeting"}))
	// Unknown permissions sit below every real level.
	require.True(t, catalog.CanGrant(editor, []string{"bogus"}))
}

func TestNewCatalogHighestRankWinsOnDuplicates(t *testing.T) {
	catalog := NewCatalog(map[int][]string{
		1: {"p"},
		3: {"p"},
	})
	require.Equal(t, 3, catalog.LevelOf("p"))
}

func TestDefaultCatalogCoversEveryPermission(t *testing.T) {
	catalog := DefaultCatalog()
	for _, p := range catalog.Known() {
		require.NotEqual(t, SentinelLevel, catalog.LevelOf(p), p)
	}
	require.Contains(t, catalog.Known(), PermTransferMedia)
	require.Equal(t, 5, catalog.LevelOf(PermDeleteRole))
}
