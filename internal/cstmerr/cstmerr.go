package cstmerr

import (
	"fmt"
)

// BaseError provides a base for custom errors, allowing for wrapped errors.
type BaseError struct {
	Msg string
	Err error // Underlying error
}

func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// ConfigError indicates a problem with configuration.
type ConfigError struct{ BaseError }

func NewConfigError(msg string, underlyingErr error) *ConfigError {
	return &ConfigError{BaseError{Msg: msg, Err: underlyingErr}}
}

// VersionFormatError indicates an invalid version string.
type VersionFormatError struct{ BaseError }

func NewVersionFormatError(msg string) *VersionFormatError {
	return &VersionFormatError{BaseError{Msg: "Version format error: " + msg}}
}

// CommandError indicates an external tool exited with a non-zero status.
// Step names the workflow step the tool was running for.
type CommandError struct {
	BaseError
	Step     string
	ExitCode int
}

func NewCommandError(step string, exitCode int, underlyingErr error) *CommandError {
	return &CommandError{
		BaseError: BaseError{Msg: fmt.Sprintf("%s failed with exit status %d", step, exitCode), Err: underlyingErr},
		Step:      step,
		ExitCode:  exitCode,
	}
}

// DownloadError indicates a problem during file download.
type DownloadError struct{ BaseError }

func NewDownloadError(msg string) *DownloadError {
	return &DownloadError{BaseError{Msg: "Download error: " + msg}}
}

// TimeoutError indicates a timeout during an operation.
type TimeoutError struct{ BaseError }

func NewTimeoutError(underlyingErr error) *TimeoutError {
	return &TimeoutError{BaseError{Msg: "Timeout error", Err: underlyingErr}}
}

// ArchiveError indicates the fetched archive is missing, malformed, or did
// not produce the expected source tree.
type ArchiveError struct{ BaseError }

func NewArchiveError(msg string, underlyingErr error) *ArchiveError {
	return &ArchiveError{BaseError{Msg: "Archive error: " + msg, Err: underlyingErr}}
}

// FileSystemError indicates a general filesystem problem.
type FileSystemError struct{ BaseError }

func NewFileSystemError(msg string) *FileSystemError {
	return &FileSystemError{BaseError{Msg: "Filesystem error: " + msg}}
}

// FileIOError indicates an I/O problem during file operations.
type FileIOError struct{ BaseError }

func NewFileIOError(msg string, underlyingErr error) *FileIOError {
	return &FileIOError{BaseError{Msg: "I/O error during file operation: " + msg, Err: underlyingErr}}
}

// NotInstalledError indicates the requested version's executable could not be
// resolved on the search path, so there is nothing to remove.
type NotInstalledError struct{ BaseError }

func NewNotInstalledError(msg string) *NotInstalledError {
	return &NotInstalledError{BaseError{Msg: "Not installed: " + msg}}
}
