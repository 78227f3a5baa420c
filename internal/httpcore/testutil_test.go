package httpcore

import (
	"os"
	"testing"
)

// discardFile opens the platform's null device so tests can construct a
// Logger without polluting test output with TRACE/WARN lines.
func discardFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open devnull: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
