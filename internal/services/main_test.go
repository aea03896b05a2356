package services

import (
	"os"
	"testing"

	"github.com/sistema/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Nop()
	os.Exit(m.Run())
}
