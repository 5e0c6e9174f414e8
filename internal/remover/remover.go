// Package remover deletes an alt-installed CPython version. The installation
// prefix is never persisted anywhere; it is rederived on every removal as the
// grandparent of the resolved executable, so an install under a different
// naming scheme is invisible here.
package remover

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pybuild-go/configs/config"
	"pybuild-go/internal/cstmerr"
	"pybuild-go/internal/pyver"
	"pybuild-go/internal/shared"
	"pybuild-go/internal/sysexec"
)

// ErrDeclined is returned when the operator answers no at the confirmation
// prompt. Nothing has been deleted in that case.
var ErrDeclined = errors.New("removal declined by user")

// Remover runs the removal workflow.
type Remover struct {
	cfg    *config.Config
	runner sysexec.Runner
	logger *log.Logger
	in     *bufio.Reader
	out    io.Writer
}

// New creates a Remover. in must be the shared buffered reader over the
// process's interactive input.
func New(cfg *config.Config, runner sysexec.Runner, logger *log.Logger, in *bufio.Reader, out io.Writer) *Remover {
	return &Remover{cfg: cfg, runner: runner, logger: logger, in: in, out: out}
}

// Remove locates the version's executable, confirms with the operator and
// deletes the installed artifact set. Each deletion is best-effort; targets
// that no longer exist are ignored.
func (r *Remover) Remove(ctx context.Context, v pyver.Version) error {
	execName := v.ExecName()
	execPath, err := r.runner.LookPath(execName)
	if err != nil {
		return cstmerr.NewNotInstalledError(
			fmt.Sprintf("%s not found on PATH; nothing to remove", execName))
	}

	prefix := filepath.Dir(filepath.Dir(execPath))
	r.logger.Info("resolved installation", "exec", execPath, "prefix", prefix)

	fmt.Fprintf(r.out, "This removes %s and its companion files under %s. Continue? [y/N]: ", execName, prefix)
	answer, _ := shared.ReadLine(r.in)
	if !shared.IsAffirmative(answer) {
		return ErrDeclined
	}

	for _, target := range removalTargets(prefix, v) {
		r.delete(ctx, target)
	}
	for _, pattern := range removalGlobs(prefix, v) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			r.logger.Warn("bad removal pattern", "pattern", pattern, "err", err)
			continue
		}
		for _, match := range matches {
			r.delete(ctx, match)
		}
	}

	fmt.Fprintf(r.out, "Python %s removed from %s.\n", v.Raw, prefix)
	r.logger.Info("removal complete", "version", v.Raw, "prefix", prefix)
	return nil
}

// removalTargets is the fixed artifact set altinstall places under a prefix
// for one major.minor version.
func removalTargets(prefix string, v pyver.Version) []string {
	mm := v.MajorMinor()
	return []string{
		filepath.Join(prefix, "bin", "python"+mm),
		filepath.Join(prefix, "bin", "pip"+mm),
		filepath.Join(prefix, "bin", "idle"+mm),
		filepath.Join(prefix, "bin", "pydoc"+mm),
		filepath.Join(prefix, "bin", "2to3-"+mm),
		filepath.Join(prefix, "lib", "python"+mm),
		filepath.Join(prefix, "include", "python"+mm),
		filepath.Join(prefix, "share", "man", "man1", "python"+mm+".1"),
	}
}

// removalGlobs matches versioned artifacts whose exact names vary by build
// configuration (ABI-suffixed static libraries, pkg-config metadata).
func removalGlobs(prefix string, v pyver.Version) []string {
	mm := v.MajorMinor()
	return []string{
		filepath.Join(prefix, "lib", "libpython"+mm+"*.a"),
		filepath.Join(prefix, "lib", "pkgconfig", "python-"+mm+"*.pc"),
	}
}

// delete removes one path with elevated privileges. Failures are logged and
// ignored so a partially-removed install can be cleaned up by re-running.
func (r *Remover) delete(ctx context.Context, path string) {
	res, err := r.runner.Run(ctx, sysexec.Command{
		Name: r.cfg.SudoPath,
		Args: []string{"rm", "-rf", path},
	})
	if err != nil || !res.Success() {
		r.logger.Warn("could not delete", "path", path, "err", err)
		return
	}
	r.logger.Info("deleted", "path", path)
}
