// Package runner wraps external command execution (docker, git) behind an
// interface so callers can be exercised without a container runtime.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command, streaming its output, and returns an error
	// if it fails. Non-zero exits are reported as *ExitError.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its combined standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExitError reports a command that started successfully and exited non-zero.
type ExitError struct {
	Cmd  string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
}

// ExitCode extracts the process exit code from an error returned by a
// Runner. It returns -1 when the error does not carry one.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return r.wrap(cmd, cmd.Run())
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stderr = r.Stderr
	out, err := cmd.Output()
	return out, r.wrap(cmd, err)
}

func (r *ExecRunner) wrap(cmd *exec.Cmd, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Only the binary name goes into the error: full argument lists
		// can carry credential-bearing URLs.
		return &ExitError{
			Cmd:  cmd.Args[0],
			Code: exitErr.ExitCode(),
		}
	}
	return err
}
