package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeworks/lathe/internal/paths"
)

// Suffix appended to the preserved original while the replacement is in place.
const swapSuffix = ".REAL"

// A host file whose content is temporarily replaced.
//
// The original is preserved by renaming it aside; restore renames it back.
// Swapping a path that does not exist or is not a regular file is a no-op.
type FileSwapper struct {
	Target  string // File path to replace, relative to the sandbox root.
	Content string // Replacement content.

	target  string // Resolved target path, recorded when swapped.
	swapped string // Path of the preserved original.
}

// Replaces the target's content under the given root, preserving the
// original.
func (f *FileSwapper) swap(root string) error {
	target := filepath.Join(root, strings.TrimPrefix(f.Target, "/"))

	info, err := os.Lstat(target)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	swapped := target + swapSuffix
	if err := os.Rename(target, swapped); err != nil {
		return fmt.Errorf("%w: swap %s: %v", ErrSandbox, target, err)
	}
	if err := os.WriteFile(target, []byte(f.Content), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrSandbox, target, err)
	}

	f.target = target
	f.swapped = swapped
	return nil
}

// Puts the original file back. A no-op when nothing was swapped or the
// preserved original is gone.
func (f *FileSwapper) restore() error {
	if f.swapped == "" {
		return nil
	}

	info, err := os.Lstat(f.swapped)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	if err := os.Rename(f.swapped, f.target); err != nil {
		return fmt.Errorf("%w: restore %s: %v", ErrSandbox, f.target, err)
	}
	return nil
}
