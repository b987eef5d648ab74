// Package errors provides error wrapping with slog annotations and caller
// locations on top of the standard library errors package.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError carries a message, an optional wrapped error, slog attributes
// for structured logging, and the source location where it was created.
type annotatedError struct {
	msg         string
	err         error
	annotations []slog.Attr
	source      string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates a sentinel error suitable for errors.Is comparisons.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:         msg,
		err:         nil,
		annotations: nil,
		source:      callerSource(2), //nolint:mnd // skip callerSource and NewSentinel.
	}
}

// Wrap annotates err with a message and optional slog attributes.
func Wrap(err error, msg string, annotations ...slog.Attr) error {
	return &annotatedError{
		msg:         msg,
		err:         err,
		annotations: annotations,
		source:      callerSource(2), //nolint:mnd // skip callerSource and Wrap.
	}
}

// DecoratePanic converts a recovered panic value into an error pointing at the
// panic site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{
		msg:         fmt.Sprintf("panic: %v", recovered),
		err:         nil,
		annotations: nil,
		source:      panicSource(),
	}
}

// SlogError collects the messages, annotations, and source locations of the
// error chain into a single slog.Attr for logging.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{} //nolint:exhaustruct // empty attr is dropped by slog.
	}

	var (
		annotations []slog.Attr
		sources     []string
	)
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if annotated, ok := unwrapped.(*annotatedError); ok { //nolint:errorlint // walking the chain manually.
			annotations = append(annotations, annotated.annotations...)
			if annotated.source != "" {
				sources = append(sources, annotated.source)
			}
		}
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}
	if len(sources) > 0 {
		attrs = append(attrs, slog.String("source", strings.Join(sources, " -> ")))
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// callerSource resolves the file:line of the caller skip frames up the stack.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", trimPath(file), line)
}

// panicSource walks the stack past the runtime panic machinery and this
// package to find the frame that panicked.
func panicSource() string {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and panicSource.
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "annotatederror.go") &&
			!strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", trimPath(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// trimPath shortens an absolute file path to its last two elements.
func trimPath(file string) string {
	parts := strings.Split(file, "/")
	const keep = 2
	if len(parts) <= keep {
		return file
	}
	return strings.Join(parts[len(parts)-keep:], "/")
}

// Re-exported standard library helpers so that callers only need one errors
// import.

func New(msg string) error {
	return errors.New(msg) //nolint:err113 // mirrors stdlib errors.New.
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}
