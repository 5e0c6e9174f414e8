// Package pyver models the CPython version identifier and every name the
// workflows derive from it: archive name, download URL, extraction directory
// and the major.minor tag used by altinstall executables.
package pyver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pybuild-go/internal/cstmerr"
)

var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// Version is a parsed MAJOR.MINOR.PATCH identifier.
type Version struct {
	Raw   string
	Major int
	Minor int
	Patch int
}

// Parse validates s against MAJOR.MINOR.PATCH and returns the parsed version.
// Anything else (missing component, extra component, leading "v", spaces)
// yields a VersionFormatError.
func Parse(s string) (Version, error) {
	if !versionPattern.MatchString(s) {
		return Version{}, cstmerr.NewVersionFormatError(
			fmt.Sprintf("%q does not match MAJOR.MINOR.PATCH", s))
	}
	parts := strings.SplitN(s, ".", 3)
	major, _ := strconv.Atoi(parts[0])
	minor, _ := strconv.Atoi(parts[1])
	patch, _ := strconv.Atoi(parts[2])
	return Version{Raw: s, Major: major, Minor: minor, Patch: patch}, nil
}

// MajorMinor returns the two-component tag, e.g. "3.10" for 3.10.0.
func (v Version) MajorMinor() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ExecName returns the altinstall executable name, e.g. "python3.10".
func (v Version) ExecName() string {
	return "python" + v.MajorMinor()
}

// SourceDir returns the directory the source archive extracts to,
// e.g. "Python-3.10.0".
func (v Version) SourceDir() string {
	return "Python-" + v.Raw
}

// ArchiveName returns the source tarball name, e.g. "Python-3.10.0.tgz".
func (v Version) ArchiveName() string {
	return v.SourceDir() + ".tgz"
}

// DownloadURL returns the archive URL under the given mirror base.
func (v Version) DownloadURL(base string) string {
	return strings.TrimRight(base, "/") + "/" + v.Raw + "/" + v.ArchiveName()
}

func (v Version) String() string {
	return v.Raw
}
