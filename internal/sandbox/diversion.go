package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Suffix dpkg-divert renames diverted files to.
const divertSuffix = ".dpkg-divert"

// Runs an external command, logging its output at debug level. Replaceable
// for tests.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			slog.Debug(name, "output", line)
		}
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// A host file renamed away for the sandbox's duration.
//
// Diversion delegates to dpkg-divert, the package manager's own mechanism,
// so package operations inside the sandbox honor it as well.
type Diversion struct {
	Target string // File path to divert, relative to the sandbox root.

	root string // Sandbox root, recorded when the diversion is applied.
}

// Diverts the target under the given root.
func (d *Diversion) divert(ctx context.Context, root string) error {
	d.root = root
	return runCommand(ctx, "dpkg-divert",
		"--divert", d.Target+divertSuffix,
		"--local",
		"--root="+root,
		"--rename",
		d.Target,
	)
}

// Removes the diversion.
//
// dpkg-divert does not treat removing a non-existent diversion as an error,
// so undiverting is safe even when the diversion never happened.
func (d *Diversion) undivert(ctx context.Context) error {
	if d.root == "" {
		return nil
	}
	return runCommand(ctx, "dpkg-divert",
		"--remove",
		"--local",
		"--root="+d.root,
		"--rename",
		d.Target,
	)
}
