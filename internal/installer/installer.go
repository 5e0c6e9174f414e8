// Package installer builds a requested CPython version from source: package
// index refresh, build prerequisites, source download, extraction, then
// configure/make/altinstall inside the extracted tree. The workflow is
// strictly sequential; the first failing step aborts the rest, and completed
// steps are never rolled back.
package installer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"pybuild-go/configs/config"
	"pybuild-go/internal/cstmerr"
	"pybuild-go/internal/pyver"
	"pybuild-go/internal/shared"
	"pybuild-go/internal/sysexec"
)

const totalSteps = 7

// ArchiveFetcher downloads a source archive into a directory and returns the
// downloaded file's path.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, url string, destDir string) (string, error)
}

// Installer runs the install workflow.
type Installer struct {
	cfg     *config.Config
	runner  sysexec.Runner
	fetcher ArchiveFetcher
	logger  *log.Logger
	in      *bufio.Reader
	out     io.Writer

	// NumCPU reports the available processor count; a non-positive return
	// means the count is unknown. Overridable in tests.
	NumCPU func() int
}

// New creates an Installer. in must be the shared buffered reader over the
// process's interactive input.
func New(cfg *config.Config, runner sysexec.Runner, fetcher ArchiveFetcher, logger *log.Logger, in *bufio.Reader, out io.Writer) *Installer {
	return &Installer{
		cfg:     cfg,
		runner:  runner,
		fetcher: fetcher,
		logger:  logger,
		in:      in,
		out:     out,
		NumCPU:  runtime.NumCPU,
	}
}

// BuildJobs converts an available processor count into a make job count: 80%
// of the count truncated down, never below 1. An unknown count (cpus <= 0)
// defaults to 2.
func BuildJobs(cpus int) int {
	if cpus <= 0 {
		return 2
	}
	jobs := cpus * 8 / 10
	if jobs < 1 {
		jobs = 1
	}
	return jobs
}

// Install builds and alt-installs the requested version.
func (i *Installer) Install(ctx context.Context, v pyver.Version) error {
	i.step(1, "Preparing to install Python %s", v.Raw)
	i.logger.Info("install requested", "version", v.Raw)

	i.step(2, "Refreshing the package index")
	if err := i.runTool(ctx, "package index refresh", "",
		i.cfg.SudoPath, i.cfg.PackageManager, "update"); err != nil {
		return err
	}

	i.step(3, "Installing build prerequisites")
	args := append([]string{i.cfg.PackageManager, "install", "-y"}, i.cfg.Prerequisites...)
	if err := i.runTool(ctx, "prerequisite install", "", i.cfg.SudoPath, args...); err != nil {
		return err
	}

	i.step(4, "Downloading %s", v.ArchiveName())
	if err := shared.EnsureDir(i.cfg.WorkDir); err != nil {
		return err
	}
	url := v.DownloadURL(i.cfg.MirrorBaseURL)
	archive, err := i.fetcher.Fetch(ctx, url, i.cfg.WorkDir)
	if err != nil {
		i.logger.Error("download failed; the version may not exist upstream, or the network is unavailable",
			"url", url)
		return err
	}

	i.step(5, "Extracting %s", v.ArchiveName())
	if err := i.runTool(ctx, "archive extraction", i.cfg.WorkDir,
		"tar", "-xzf", v.ArchiveName()); err != nil {
		return err
	}
	srcDir := filepath.Join(i.cfg.WorkDir, v.SourceDir())
	if err := shared.VerifySourceTree(srcDir); err != nil {
		return err
	}

	i.step(6, "Building Python %s (configure, make, altinstall)", v.Raw)
	jobs := BuildJobs(i.NumCPU())
	i.logger.Info("starting build", "jobs", jobs)
	err = shared.WithWorkingDir(srcDir, func() error {
		if err := i.runTool(ctx, "configure", "", "./configure", i.cfg.ConfigureFlags...); err != nil {
			return err
		}
		if err := i.runTool(ctx, "compile", "", "make", "-j", strconv.Itoa(jobs)); err != nil {
			return err
		}
		return i.runTool(ctx, "altinstall", "", i.cfg.SudoPath, "make", "altinstall")
	})
	if err != nil {
		return err
	}

	i.step(7, "Verifying the installation")
	i.finish(ctx, v, archive, srcDir)
	return nil
}

// finish reloads shell config files, checks the new executable is resolvable
// and offers to delete the build inputs. Everything here is best-effort; a
// completed altinstall is already a success.
func (i *Installer) finish(ctx context.Context, v pyver.Version, archive, srcDir string) {
	for _, rc := range i.cfg.ShellRCFiles {
		path, err := shared.ExpandHome(rc)
		if err != nil {
			i.logger.Warn("skipping shell config reload", "file", rc, "err", err)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		res, err := i.runner.Run(ctx, sysexec.Command{
			Name: "bash",
			Args: []string{"-c", "source " + path},
		})
		if err != nil || !res.Success() {
			i.logger.Warn("could not reload shell config", "file", path)
		}
	}

	execName := v.ExecName()
	if execPath, err := i.runner.LookPath(execName); err == nil {
		reported := ""
		if res, err := i.runner.Run(ctx, sysexec.Command{Name: execPath, Args: []string{"--version"}}); err == nil && res.Success() {
			// Older interpreters print the version banner on stderr.
			reported = strings.TrimSpace(res.Stdout + res.Stderr)
		}
		fmt.Fprintf(i.out, "Python %s installed successfully: %s (%s)\n", v.Raw, execPath, reported)
		i.logger.Info("install verified", "exec", execPath, "reported", reported)
	} else {
		fmt.Fprintf(i.out, "Install finished, but %s is not on your PATH yet; you may need to restart your shell session.\n", execName)
		i.logger.Warn("installed executable not resolvable yet", "exec", execName)
	}

	fmt.Fprintf(i.out, "Delete the downloaded archive and extracted sources? [y/N]: ")
	answer, _ := shared.ReadLine(i.in)
	if !shared.IsAffirmative(answer) {
		return
	}
	if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
		i.logger.Warn("could not delete archive", "path", archive, "err", err)
	}
	if err := os.RemoveAll(srcDir); err != nil {
		i.logger.Warn("could not delete source directory", "path", srcDir, "err", err)
	}
	i.logger.Info("build inputs cleaned up", "archive", archive, "sources", srcDir)
}

// runTool runs one external tool and converts a non-zero exit into a
// CommandError naming the step.
func (i *Installer) runTool(ctx context.Context, step, dir, name string, args ...string) error {
	res, err := i.runner.Run(ctx, sysexec.Command{
		Name:   name,
		Args:   args,
		Dir:    dir,
		Stream: true,
	})
	if err != nil {
		return cstmerr.NewCommandError(step, -1, err)
	}
	if !res.Success() {
		return cstmerr.NewCommandError(step, res.ExitCode, nil)
	}
	return nil
}

func (i *Installer) step(n int, format string, args ...any) {
	fmt.Fprintf(i.out, "[%d/%d] %s\n", n, totalSteps, fmt.Sprintf(format, args...))
}
