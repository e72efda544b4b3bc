package api_test

import (
	"os"
	"testing"

	"resume-ranker/pkg/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "api-logs")
	if err != nil {
		panic(err)
	}
	_ = logger.Init(logger.Options{Dir: dir, Level: "debug"})

	code := m.Run()

	logger.Sync()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
