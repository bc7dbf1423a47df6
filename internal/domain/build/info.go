// Package build provides domain entities for build information.
package build

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// IsRelease reports whether Version is a tagged semantic version without
// a prerelease suffix.
func (i Info) IsRelease() bool {
	v := i.canonical()
	return v != "" && semver.Prerelease(v) == "" && semver.Build(i.prefixed()) == ""
}

// DisplayVersion returns the canonical version, or the raw value marked as a
// development build.
func (i Info) DisplayVersion() string {
	v := i.canonical()
	switch {
	case v == "":
		if i.Version == "" || i.Version == "dev" {
			return "dev"
		}
		return i.Version + " (dev)"
	case !i.IsRelease():
		return v + " (pre-release)"
	}
	return v
}

func (i Info) prefixed() string {
	if i.Version != "" && i.Version[0] != 'v' {
		return "v" + i.Version
	}
	return i.Version
}

func (i Info) canonical() string {
	return semver.Canonical(i.prefixed())
}

// String formats the info for the version command.
func (i Info) String() string {
	return fmt.Sprintf("berkelium %s (commit %s, built %s, %s)", i.DisplayVersion(), i.Commit, i.BuildDate, i.GoVersion)
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/berkelium-go"
}
