// Package testing flips the process into test mode when blank-imported from
// a test file, before any application init runs.
package testing

import (
	"os"
	stdtesting "testing"

	_ "github.com/phaserunner03/meetAndMediaSync-sub000/internal/testing/guard"
)

func TestMain(m *stdtesting.M) {
	os.Exit(m.Run())
}
