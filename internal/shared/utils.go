package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pybuild-go/internal/cstmerr"
)

// EnsureDir creates dir (and parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return cstmerr.NewFileSystemError(fmt.Sprintf("failed to create directory %s: %v", dir, err))
		}
	} else if err != nil {
		return cstmerr.NewFileSystemError(fmt.Sprintf("failed to check directory %s: %v", dir, err))
	}
	return nil
}

// WithWorkingDir runs fn with the process working directory set to dir and
// restores the previous working directory afterwards, whether or not fn
// failed.
func WithWorkingDir(dir string, fn func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return cstmerr.NewFileSystemError(fmt.Sprintf("failed to get working directory: %v", err))
	}
	if err := os.Chdir(dir); err != nil {
		return cstmerr.NewFileSystemError(fmt.Sprintf("failed to enter %s: %v", dir, err))
	}
	defer os.Chdir(prev)
	return fn()
}

// VerifySourceTree checks that dir looks like an extracted CPython source
// tree. The extraction directory existing is not enough: an archive whose
// top-level name happens to match the convention could still hold anything,
// so require the configure script as a marker.
func VerifySourceTree(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return cstmerr.NewArchiveError(fmt.Sprintf("expected extraction directory %s not found", dir), err)
	}
	if !info.IsDir() {
		return cstmerr.NewArchiveError(fmt.Sprintf("%s exists but is not a directory", dir), nil)
	}
	marker := filepath.Join(dir, "configure")
	if _, err := os.Stat(marker); err != nil {
		return cstmerr.NewArchiveError(fmt.Sprintf("%s does not look like a source tree (no configure script)", dir), err)
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory. Paths
// without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", cstmerr.NewFileSystemError(fmt.Sprintf("failed to resolve home directory: %v", err))
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
