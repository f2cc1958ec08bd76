package services

import (
	"bytes"
	"os"
	"testing"

	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// captureLog redirects logger output into a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}
