package memory

import (
	"os"
	"testing"

	"github.com/dropDatabas3/castingagency/internal/observability/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.Config{Env: "test"})
	os.Exit(m.Run())
}
