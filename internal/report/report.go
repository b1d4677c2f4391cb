// Package report defines errors that are shown to the user as a message plus
// detail lines, without a stack trace, and the exit codes that go with them.
package report

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitReportable = 1
	ExitInternal   = 2
)

// Reportable is implemented by errors that carry user-facing detail lines.
type Reportable interface {
	error
	Details() []string
}

// Error is a general purpose Reportable.
type Error struct {
	Message string
	Lines   []string
	Cause   error
}

// New returns an Error with detail lines.
func New(message string, details ...string) *Error {
	return &Error{Message: message, Lines: details}
}

// Wrap returns an Error that reports cause beneath message. A nil cause
// yields nil.
func Wrap(cause error, message string, details ...string) error {
	if cause == nil {
		return nil
	}
	return &Error{Message: message, Lines: details, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Details returns the detail lines.
func (e *Error) Details() []string { return e.Lines }

func (e *Error) Unwrap() error { return e.Cause }

// IsReportable reports whether err, or anything it wraps, is Reportable.
func IsReportable(err error) bool {
	var r Reportable
	return errors.As(err, &r)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsReportable(err):
		return ExitReportable
	default:
		return ExitInternal
	}
}

// Print writes err to w. Reportable errors print their message, each detail
// line, and the cause if there is one. Other errors print as "error: ...".
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var r Reportable
	if !errors.As(err, &r) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	if e, ok := r.(*Error); ok {
		fmt.Fprintln(w, e.Message)
	} else {
		fmt.Fprintln(w, r.Error())
	}
	for _, line := range r.Details() {
		fmt.Fprintln(w, line)
	}
	if cause := errors.Unwrap(r); cause != nil {
		fmt.Fprintf(w, "Cause: %v\n", cause)
	}
}
