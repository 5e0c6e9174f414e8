// Package sysexec wraps external tool invocation behind a small interface so
// workflow code can be exercised against fakes.
package sysexec

import (
	"context"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory for the process; empty inherits the
	// caller's.
	Dir string
	// Env entries are appended to the inherited environment.
	Env []string
	// Stream mirrors the tool's output to the adapter's writers while it is
	// still captured in the Result. Used for long-running build tools so the
	// operator sees progress.
	Stream bool
}

// Result is the outcome of a completed invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the tool exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner defines the interface for running external tools. Run returns an
// error only when the process could not be started at all; a tool that ran
// and exited non-zero yields a Result with that exit code and a nil error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath resolves an executable name on the search path.
	LookPath(file string) (string, error)
}
