// Package vars holds build information: linker (ldflags) overrides first, then the VCS stamp of the Go toolchain.
package vars

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// License of the project
const License = "AGPL-3.0"

var (
	// Name of the project
	Name = "Pingboard"

	// URL to repository (https)
	URL = "https://github.com/woozymasta/pingboard"

	// Version is the git tag, "dev" for local builds
	Version = "dev"

	// Commit is the full or short git SHA
	Commit = "unknown"

	// BuildTime is the commit or build time in UTC
	BuildTime = time.Unix(0, 0).UTC()

	// Modified reports a dirty working tree at build time
	Modified bool

	_buildTime string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}

	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

// fromBuildInfo fills whatever the linker left at its default.
func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "unknown" {
				Commit = s.Value
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				BuildTime = t.UTC()
			}
		case "vcs.modified":
			Modified = s.Value == "true"
		}
	}
}

// Print writes the build information to the standard output.
func Print() {
	fmt.Print(Summary())
}

// Summary returns the multi-line build information printed by --version.
func Summary() string {
	commit := CommitShort()
	if Modified {
		commit += "-dirty"
	}

	return fmt.Sprintf(`%s %s
url:     %s
file:    %s
commit:  %s
built:   %s
license: %s
`, Name, Version, URL, os.Args[0], commit, BuildTime.Format(time.RFC3339), License)
}

// Dict is the build information as a zerolog dictionary for startup logs.
func Dict() *zerolog.Event {
	return zerolog.Dict().
		Str("version", Version).
		Str("commit", CommitShort()).
		Bool("modified", Modified).
		Time("built", BuildTime)
}

// CommitShort returns the first 7 characters of the git commit hash.
func CommitShort() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}

	return Commit
}
