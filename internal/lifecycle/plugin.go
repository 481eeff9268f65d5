package lifecycle

import (
	"context"

	"github.com/forgeworks/lathe/internal/state"
)

// Supplies the commands, packages, and environment one part's build tool
// needs. The lifecycle never interprets the command strings, it only
// decides whether to run them and records what they ran with.
type Plugin interface {
	// Commands run during the pull step, after sources are fetched.
	PullCommands() []string

	// Commands run during the build step, in order.
	BuildCommands() []string

	// Names of system packages the build step needs installed.
	BuildPackages() state.Set

	// Names of snaps the build step needs installed.
	BuildSnaps() state.Set

	// Environment variables exported to every command the plugin runs.
	BuildEnvironment() map[string]string
}

// Installs and fetches packages on behalf of steps. Implementations talk
// to a concrete package manager; the lifecycle records what they report.
type Repository interface {
	// Installs the named build packages on the host, returning the
	// "name=version" records stored in the build state's assets.
	InstallPackages(ctx context.Context, names []string) ([]string, error)

	// Downloads the named stage packages into cacheDir, returning the
	// resolved "name=version" records stored in the pull state's assets.
	FetchStagePackages(ctx context.Context, names []string, cacheDir string) ([]string, error)

	// Unpacks previously fetched stage packages from cacheDir into a
	// part's install directory.
	UnpackStagePackages(ctx context.Context, cacheDir, installDir string) error
}
