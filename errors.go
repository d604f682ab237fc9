package launchd

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by launchd operations
var (
	// ErrUnknownDomain indicates a domain name that is not user, system, or gui
	ErrUnknownDomain = errors.New("launchd: unknown domain")

	// ErrUnknownOperation indicates a verb RunAction does not support
	ErrUnknownOperation = errors.New("launchd: unknown operation")

	// ErrUnknownColumn indicates a sort column name that is not label, path, or state
	ErrUnknownColumn = errors.New("launchd: unknown column")

	// ErrNoLabel indicates an operation was requested without a job label
	ErrNoLabel = errors.New("launchd: job label required")

	// ErrNoWatchDirs indicates that none of the requested definition
	// directories could be watched
	ErrNoWatchDirs = errors.New("launchd: no watchable definition directories")
)

// ToolError represents a failed launchctl invocation: the process could not
// be started, or a query wrote to its error stream. Callers treat it as a
// report and keep their previous snapshot.
type ToolError struct {
	// Args is the launchctl argument list that was invoked
	Args []string
	// Stderr is the captured error-stream text, if any
	Stderr string
	// Err is the underlying error, if the process could not run
	Err error
}

// Error returns a formatted error message
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("launchctl %s", strings.Join(e.Args, " "))
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", msg, strings.TrimSpace(e.Stderr))
}

// Unwrap returns the underlying error for error chain inspection
func (e *ToolError) Unwrap() error {
	return e.Err
}

// ActionError represents a start/stop/enable/disable invocation that wrote to
// launchctl's error stream. Action failures are expected (permission denied,
// unknown label) and are reported rather than escalated; the current snapshot
// and view are unaffected.
type ActionError struct {
	// Op is the action verb that failed
	Op Operation
	// Label is the job label the action targeted
	Label string
	// Stderr is the verbatim error-stream text
	Stderr string
}

// Error returns a formatted error message
func (e *ActionError) Error() string {
	return fmt.Sprintf("launchctl %s %s: %s", e.Op, e.Label, strings.TrimSpace(e.Stderr))
}

// MultiError aggregates multiple errors from bulk operations
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
