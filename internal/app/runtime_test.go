package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/phaserunner03/meetAndMediaSync-sub000/testing"
)

// The blank import above must set MEETSYNC_TEST_MODE before this package's
// cached flag is first read.
func TestHarnessImportEnablesTestMode(t *testing.T) {
	RefreshTestMode()
	require.True(t, InTestMode())
}
