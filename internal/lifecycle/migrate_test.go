package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/forgeworks/lathe/internal/state"
)

func TestMigrateFilesAndDirs(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{
		"usr/bin/tool": "#!/bin/sh\n",
		"usr/lib/a.so": "lib",
	})

	files := state.NewSet("usr/bin/tool", "usr/lib/a.so")
	dirs := state.NewSet("usr", "usr/bin", "usr/lib")

	gotFiles, gotDirs, err := Migrate(files, dirs, src, dest)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !gotFiles.Equal(files) {
		t.Fatalf("migrated files: got %v, want %v", gotFiles.Sorted(), files.Sorted())
	}
	if !gotDirs.Equal(dirs) {
		t.Fatalf("migrated dirs: got %v, want %v", gotDirs.Sorted(), dirs.Sorted())
	}

	content, err := os.ReadFile(filepath.Join(dest, "usr/bin/tool"))
	if err != nil {
		t.Fatalf("migrated file unreadable: %v", err)
	}
	if got, want := string(content), "#!/bin/sh\n"; got != want {
		t.Fatalf("content: got %q, want %q", got, want)
	}
}

func TestMigrateHardlinksWhenPossible(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"tool": "x"})

	if _, _, err := Migrate(state.NewSet("tool"), state.NewSet(), src, dest); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	srcInfo, err := os.Stat(filepath.Join(src, "tool"))
	if err != nil {
		t.Fatal(err)
	}
	destInfo, err := os.Stat(filepath.Join(dest, "tool"))
	if err != nil {
		t.Fatal(err)
	}
	// Both dirs are under the same tmp filesystem, so linking must work.
	if !os.SameFile(srcInfo, destInfo) {
		t.Fatal("expected a hardlink into the shared area")
	}
}

func TestMigrateSkipsExistingFiles(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	writeTree(t, src, map[string]string{"tool": "mine"})
	writeTree(t, dest, map[string]string{"tool": "theirs"})

	gotFiles, _, err := Migrate(state.NewSet("tool"), state.NewSet(), src, dest)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dest, "tool"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(content), "theirs"; got != want {
		t.Fatalf("existing file overwritten: got %q, want %q", got, want)
	}
	// Still claimed, so cleaning this part withdraws it.
	if !gotFiles.Has("tool") {
		t.Fatal("existing file not recorded as migrated")
	}
}

func TestMigrateRecreatesSymlinks(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	if err := os.Symlink("target", filepath.Join(src, "link")); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Migrate(state.NewSet("link"), state.NewSet(), src, dest); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dest, "link"))
	if err != nil {
		t.Fatalf("migrated symlink unreadable: %v", err)
	}
	if got, want := target, "target"; got != want {
		t.Fatalf("symlink target: got %q, want %q", got, want)
	}
}

func TestMigrateMissingSource(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()

	_, _, err := Migrate(state.NewSet("absent"), state.NewSet(), src, dest)
	if !errors.Is(err, ErrMigration) {
		t.Fatalf("got %v, want ErrMigration", err)
	}
}

func TestCleanAreaPreservesSharedDirs(t *testing.T) {
	area := t.TempDir()
	writeTree(t, area, map[string]string{
		"bin/foo": "mine",
		"bin/bar": "theirs",
		"doc/foo": "mine",
	})

	files := state.NewSet("bin/foo", "doc/foo")
	dirs := state.NewSet("bin", "doc")

	if err := CleanArea(files, dirs, area); err != nil {
		t.Fatalf("CleanArea: %v", err)
	}

	if _, err := os.Stat(filepath.Join(area, "bin/bar")); err != nil {
		t.Fatalf("shared file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(area, "bin")); err != nil {
		t.Fatal("non-empty directory removed")
	}
	if _, err := os.Stat(filepath.Join(area, "doc")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("emptied directory not removed")
	}
}

func TestCleanAreaMissingContent(t *testing.T) {
	area := t.TempDir()

	err := CleanArea(state.NewSet("gone"), state.NewSet("also/gone"), area)
	if err != nil {
		t.Fatalf("cleaning already-removed content: %v", err)
	}
}
