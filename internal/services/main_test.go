package services

import (
	"os"
	"testing"

	"swipetonpro_backend/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}
