package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Name of the tool, used for the command name and log grouping.
const Name = "lathe"

const (
	// Placeholder for build variables a pipeline never set.
	undefined = "(undefined)"

	// Version string reported by builds made outside a pipeline.
	localBuild = "(local)"

	// Branch whose name is elided from version strings.
	releaseBranch = "main"
)

// Set via ldflags by the release pipeline. Local builds leave all three
// empty.
var (
	version   = "" // Release version, e.g. "1.2.3".
	stage     = "" // Git branch the build was made from.
	gitCommit = "" // Commit hash the build was made at.

	rawQuiet   = "false" // Seed for quiet mode.
	rawDebug   = "false" // Seed for debug mode.
	rawVerbose = "false" // Seed for verbose output.
)

// The release version with any leading "v" stripped, or "(undefined)" when
// not set.
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(v, "v")
}

// The branch the build was made from, or "(undefined)" when not set.
func Stage() string {
	s := strings.TrimSpace(stage)
	if s == "" {
		return undefined
	}
	return strings.ToLower(s)
}

// The commit hash the build was made at, or "(undefined)" when not set.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return undefined
	}
	return c
}

// The build architecture.
func Arch() string {
	return runtime.GOARCH
}

// Whether this binary was built outside the release pipeline. Pipeline
// builds set the version, stage, and commit variables; a build missing any
// of them counts as local.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" ||
		strings.TrimSpace(gitCommit) == "" ||
		strings.TrimSpace(stage) == ""
}

// A detailed version string, "(local)" for local builds.
//
// Pipeline builds report "<version>+<stage> <commit> [<arch>]", with the
// "+<stage>" part dropped for release-branch builds.
func VersionString() string {
	if IsLocal() {
		return localBuild
	}

	s := Stage()
	if s == releaseBranch {
		s = ""
	} else {
		s = "+" + s
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), s, GitCommit(), Arch())
}
