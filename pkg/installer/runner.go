package installer

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	htberrors "github.com/musicscience37/htbuild/pkg/errors"
)

// Runner executes a command and reports its exit code.
//
// A process that starts and exits non-zero is reported through the exit code
// with a nil error. The error is reserved for failures to run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner runs commands as child processes of the current process.
// Nil streams default to the process's own stdio.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts cmd, waits for it and returns its exit code.
func (r ExecRunner) Run(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	err := c.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr), nil
	}
	return -1, htberrors.Wrap(htberrors.ErrCodeChildProcess, err, "run %s", cmd.Program)
}

// exitStatus maps a child that died from a signal to 128+signal, the status
// a shell reports for it. ExitCode alone would give -1.
func exitStatus(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

var _ Runner = ExecRunner{}
