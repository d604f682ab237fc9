package launchd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result holds the captured outcome of one control-tool invocation.
type Result struct {
	// Stdout is the full standard output text
	Stdout string
	// Stderr is the full error-stream text
	Stderr string
	// ExitCode is the process exit status (0 on success)
	ExitCode int
}

// Runner abstracts the service-control tool behind a narrow invocation
// capability, so the Lister can be exercised against canned text fixtures
// without spawning real processes.
type Runner interface {
	// Run invokes the tool with the given arguments and blocks until the
	// process exits and both output streams are drained.
	Run(ctx context.Context, args ...string) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, args ...string) (Result, error)

// Run calls f(ctx, args...).
func (f RunnerFunc) Run(ctx context.Context, args ...string) (Result, error) {
	return f(ctx, args...)
}

// ExecRunner invokes launchctl as a subprocess and captures its output.
type ExecRunner struct {
	// Path is the launchctl binary to invoke
	Path string
}

// NewExecRunner creates an ExecRunner for the given binary path.
// An empty path selects DefaultLaunchctlPath.
func NewExecRunner(path string) *ExecRunner {
	if path == "" {
		path = DefaultLaunchctlPath
	}
	return &ExecRunner{Path: path}
}

// Run executes the tool and waits for it to exit. A non-zero exit status is
// not an error by itself: it is recorded on the Result, and err is non-nil
// only when the process could not be run (or the context was cancelled).
// Failure reporting keys off the captured error stream instead, since
// launchctl signals most problems there.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, r.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, nil
	}
	return res, err
}
