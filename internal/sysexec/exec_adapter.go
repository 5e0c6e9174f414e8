package sysexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"pybuild-go/internal/cstmerr"
)

// ExecAdapter implements the Runner interface using os/exec.
type ExecAdapter struct {
	// Stdout and Stderr receive streamed output for commands run with
	// Stream set. They default to the process's own stdout/stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecAdapter creates an ExecAdapter streaming to the process's own
// standard streams.
func NewExecAdapter() *ExecAdapter {
	return &ExecAdapter{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the command and waits for it to exit.
func (a *ExecAdapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	if cmd.Stream {
		c.Stdout = io.MultiWriter(&outBuf, a.stdout())
		c.Stderr = io.MultiWriter(&errBuf, a.stderr())
	} else {
		c.Stdout = &outBuf
		c.Stderr = &errBuf
	}

	err := c.Run()
	res := &Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ctx.Err() != nil {
				return nil, cstmerr.NewTimeoutError(ctx.Err())
			}
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

// LookPath resolves an executable on PATH.
func (a *ExecAdapter) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (a *ExecAdapter) stdout() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

func (a *ExecAdapter) stderr() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}
