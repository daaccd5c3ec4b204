package scoreintegrationtests

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/meishu/integration_tests/testutils"
)

// TestMain tears down the shared container once every test has run.
func TestMain(m *testing.M) {
	code := m.Run()
	testutils.Shutdown()
	os.Exit(code)
}
