package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/forgeworks/lathe/internal/paths"
	"github.com/forgeworks/lathe/internal/state"
)

// Copies part content into a shared area, hardlinking regular files where
// possible. Paths in files and directories are relative to both srcDir and
// destDir. Returns the sets of files and directories now present in the
// area on this part's behalf, the ledger persisted in the step's state.
//
// A file that already exists in the area was migrated by another part and
// is left untouched, but still counts as migrated so cleaning withdraws
// this part's claim on it.
func Migrate(files, directories state.Set, srcDir, destDir string) (state.Set, state.Set, error) {
	migratedFiles, migratedDirs := state.Set{}, state.Set{}

	for _, rel := range directories.Sorted() {
		info, err := os.Stat(filepath.Join(srcDir, rel))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMigration, err)
		}
		if err := os.MkdirAll(filepath.Join(destDir, rel), info.Mode().Perm()); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMigration, err)
		}
		migratedDirs.Insert(rel)
	}

	for _, rel := range files.Sorted() {
		src := filepath.Join(srcDir, rel)
		dest := filepath.Join(destDir, rel)

		if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMigration, err)
		}

		if _, err := os.Lstat(dest); err == nil {
			slog.Debug("file already migrated", "path", dest)
			migratedFiles.Insert(rel)
			continue
		}

		if err := linkOrCopy(src, dest); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMigration, err)
		}
		migratedFiles.Insert(rel)
	}

	return migratedFiles, migratedDirs, nil
}

// Removes previously migrated content from a shared area. Files go first;
// directories are then removed deepest first, and only when empty, so
// content contributed by other parts survives.
func CleanArea(files, directories state.Set, areaDir string) error {
	for _, rel := range files.Sorted() {
		err := os.Remove(filepath.Join(areaDir, rel))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrClean, err)
		}
	}

	dirs := directories.Sorted()
	for i := len(dirs) - 1; i >= 0; i-- {
		err := os.Remove(filepath.Join(areaDir, dirs[i]))
		if err == nil || errors.Is(err, fs.ErrNotExist) || errors.Is(err, unix.ENOTEMPTY) {
			continue
		}
		return fmt.Errorf("%w: %v", ErrClean, err)
	}

	return nil
}

// Hardlinks src to dest, falling back to a plain copy when linking fails,
// for example across filesystems. Symlinks are recreated, not followed.
func linkOrCopy(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dest)
	}

	if err := os.Link(src, dest); err == nil {
		return nil
	}
	return copyFile(src, dest, info.Mode().Perm())
}

// Copies a regular file, preserving its permission bits.
func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
