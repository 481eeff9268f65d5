package internal

import (
	"strings"
	"testing"
)

// Sets the build variables for one test and restores them afterwards.
func setBuildVars(t *testing.T, v, s, c string) {
	t.Helper()

	origVersion, origStage, origCommit := version, stage, gitCommit
	t.Cleanup(func() {
		version, stage, gitCommit = origVersion, origStage, origCommit
	})
	version, stage, gitCommit = v, s, c
}

func TestVersionStringLocalBuild(t *testing.T) {
	setBuildVars(t, "", "", "")

	if got, want := VersionString(), "(local)"; got != want {
		t.Fatalf("VersionString() = %q, want %q", got, want)
	}
}

func TestVersionStringPipelineBuild(t *testing.T) {
	setBuildVars(t, "v1.2.3", "staging", "a1b2c3d4")

	got := VersionString()
	if !strings.HasPrefix(got, "1.2.3+staging a1b2c3d4") {
		t.Fatalf("VersionString() = %q, want version, stage, and commit", got)
	}
}

func TestVersionStringElidesReleaseBranch(t *testing.T) {
	setBuildVars(t, "1.2.3", "main", "a1b2c3d4")

	got := VersionString()
	if strings.Contains(got, "+") {
		t.Fatalf("VersionString() = %q, release branch not elided", got)
	}
}

func TestVersionStripsPrefix(t *testing.T) {
	setBuildVars(t, "V2.0.0", "main", "a1b2c3d4")

	if got, want := Version(), "2.0.0"; got != want {
		t.Fatalf("Version() = %q, want %q", got, want)
	}
}
