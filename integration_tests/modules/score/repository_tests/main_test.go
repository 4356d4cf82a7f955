package scorerepositoryintegrationtests

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/leaderboard-scores/integration_tests/testutils"
)

func TestMain(m *testing.M) {
	code := m.Run()
	testutils.ShutdownTestEnv()
	os.Exit(code)
}
