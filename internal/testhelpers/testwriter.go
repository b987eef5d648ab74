package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer implements io.Writer on top of t.Log so that logs only show up for
// failed tests.
type Writer struct {
	t        *testing.T
	testDone chan struct{}
}

// NewWriter creates a Writer bound to the lifetime of the test.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{
		t:        t,
		testDone: make(chan struct{}),
	}
	// Close the writer when the test finishes to catch late writers.
	t.Cleanup(func() {
		close(w.testDone)
	})
	return w
}

// Write implements io.Writer by writing to t.Log.
func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.testDone:
		panic("testwriter: attempted to write after test completion. Did you forget to shut something down?")
	default:
		// Trim trailing newlines to avoid double-spacing in test output.
		output := strings.TrimSuffix(string(p), "\n")
		if output != "" {
			w.t.Log(output)
		}
		return len(p), nil
	}
}
