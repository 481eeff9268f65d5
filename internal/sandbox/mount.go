package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mount"
	"github.com/moby/sys/mountinfo"
)

// Mount syscall wrappers, replaceable for tests and non-Linux stubs.
var (
	sysMount            = mount.Mount
	sysMakeRPrivate     = mount.MakeRPrivate
	sysRecursiveUnmount = mount.RecursiveUnmount
	sysMounted          = mountinfo.Mounted
)

// A single mount applied under the sandbox root.
type Mount struct {
	FSType             string   // Filesystem type, empty for bind mounts.
	Source             string   // Mount source: a device, pseudo-fs name, or host path.
	RelativeMountpoint string   // Mountpoint path relative to the sandbox root.
	Options            []string // Mount options (e.g. "bind", "nodev").

	mountpoint string // Resolved mountpoint, recorded when the mount is applied.
}

// Applies the mount under the given root.
//
// The mountpoint is resolved against the root and recorded for the later
// unmount. It must already exist: a missing mountpoint fails immediately
// rather than being created.
func (m *Mount) mount(root string) error {
	mountpoint := filepath.Join(root, strings.TrimPrefix(m.RelativeMountpoint, "/"))
	if _, err := os.Stat(mountpoint); err != nil {
		return fmt.Errorf("%w: mountpoint %s does not exist", ErrMount, mountpoint)
	}
	m.mountpoint = mountpoint

	slog.Debug("mount", "source", m.Source, "mountpoint", mountpoint, "fstype", m.FSType)
	if err := sysMount(m.Source, mountpoint, m.FSType, strings.Join(m.Options, ",")); err != nil {
		return fmt.Errorf("%w: mount %s on %s: %v", ErrMount, m.Source, mountpoint, err)
	}
	return nil
}

// Unmounts the mountpoint recursively.
//
// The mountpoint is first marked private so the unmount does not propagate
// to the rest of the system. Later mounts may be nested inside earlier ones,
// so callers must unmount in reverse mount order. A mount that was never
// applied or is already gone is a no-op.
func (m *Mount) unmount() error {
	if m.mountpoint == "" {
		return nil
	}

	mounted, err := sysMounted(m.mountpoint)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: check %s: %v", ErrMount, m.mountpoint, err)
	}
	if !mounted {
		return nil
	}

	slog.Debug("umount", "mountpoint", m.mountpoint)
	if err := sysMakeRPrivate(m.mountpoint); err != nil {
		return fmt.Errorf("%w: make %s rprivate: %v", ErrMount, m.mountpoint, err)
	}
	if err := sysRecursiveUnmount(m.mountpoint); err != nil {
		return fmt.Errorf("%w: unmount %s: %v", ErrMount, m.mountpoint, err)
	}
	return nil
}
