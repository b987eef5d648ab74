package errors_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/fitcore/internal/errors"
	"github.com/myrjola/fitcore/internal/testhelpers"
)

func TestAnnotatedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  errors.NewSentinel("simple error"),
			want: "simple error",
		},
		{
			name: "wrapped once",
			err:  errors.Wrap(errors.NewSentinel("root cause"), "context", slog.String("key", "value")),
			want: "context: root cause",
		},
		{
			name: "wrapped twice",
			err: errors.Wrap(
				errors.Wrap(errors.NewSentinel("root cause"), "inner context"),
				"outer context",
			),
			want: "outer context: inner context: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAndAs(t *testing.T) {
	rootErr := errors.NewSentinel("root error")
	wrappedErr := errors.Wrap(rootErr, "context")

	if !errors.Is(wrappedErr, rootErr) {
		t.Error("Is() = false, want true for wrapped error")
	}
	if errors.Is(wrappedErr, errors.NewSentinel("different error")) {
		t.Error("Is() = true, want false for different error")
	}

	custom := &customError{msg: "custom error"}
	wrapped := errors.Wrap(custom, "context")
	var target *customError
	if !errors.As(wrapped, &target) {
		t.Fatal("As() = false, want true")
	}
	if target != custom {
		t.Errorf("As() target = %v, want %v", target, custom)
	}
}

func TestUnwrap(t *testing.T) {
	rootErr := errors.NewSentinel("root error")
	wrappedErr := fmt.Errorf("context: %w", rootErr)

	if unwrapped := errors.Unwrap(wrappedErr); !errors.Is(unwrapped, rootErr) {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, rootErr)
	}
	if unwrapped := errors.Unwrap(rootErr); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestSlogError(t *testing.T) {
	err := errors.Wrap(errors.NewSentinel("root cause"), "context",
		slog.String("key", "value"), slog.Duration("duration", time.Second))
	var buf bytes.Buffer
	l := testhelpers.NewLogger(&buf)
	l.Info("test", errors.SlogError(err))
	logLine := buf.String()

	for _, content := range []string{
		"error.annotations.key=value",
		"error.annotations.duration=1s",
		"annotatederror_test.go:",
	} {
		if !strings.Contains(logLine, content) {
			t.Errorf("expected log line %s to contain %s", logLine, content)
		}
	}

	// None of these may panic.
	errors.SlogError(nil)
	errors.SlogError(errors.Wrap(nil, "wrap error"))
	errors.SlogError(errors.Join(nil, nil, errors.NewSentinel("sentinel"), errors.New("test")))
	errors.SlogError(fmt.Errorf("test: %w", errors.NewSentinel("sentinel")))
}

func TestDecoratePanic(t *testing.T) {
	defer func() {
		err := errors.DecoratePanic(recover())
		if err == nil {
			t.Fatal("expected error")
		}
		if got, want := err.Error(), "panic: test"; got != want {
			t.Errorf("err.Error(): got %q, want %q", got, want)
		}
		attr := errors.SlogError(err)
		if got, contains := attr.String(), "annotatederror_test.go:"; !strings.Contains(got, contains) {
			t.Errorf("attr.String(): expected %q to contain %q", got, contains)
		}
	}()
	panic("test")
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
