package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/sys/unix"
)

// Phase an Execute call is in, inspectable after the call for tests and
// diagnostics.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSettingUp
	PhaseRunning
	PhaseTearingDown
	PhaseDone
	PhaseFailed
)

// Configures a sandbox.
//
// Nil Mounts, Diversions, or Swaps select the defaults; the Extra lists
// extend whatever was selected.
type Config struct {
	Root string // The new filesystem root. Must exist.

	Mounts     []*Mount
	Diversions []*Diversion
	Swaps      []*FileSwapper

	ExtraMounts     []*Mount
	ExtraDiversions []*Diversion
	ExtraSwaps      []*FileSwapper
}

// An isolated root filesystem plus the reversible bindings applied to it.
//
// A sandbox owns no state beyond the current Execute call. Mounts and
// diversions are process-wide OS state, so Execute calls against the same
// root must be serialized by the caller.
type Sandbox struct {
	root       string
	mounts     []*Mount
	diversions []*Diversion
	swaps      []*FileSwapper
	phase      Phase
}

// Creates a sandbox bound to the configured root.
func New(cfg Config) *Sandbox {
	mounts := cfg.Mounts
	if mounts == nil {
		mounts = DefaultMounts()
	}
	diversions := cfg.Diversions
	if diversions == nil {
		diversions = DefaultDiversions()
	}
	swaps := cfg.Swaps
	if swaps == nil {
		swaps = DefaultSwaps()
	}

	// Concat allocates fresh lists so the sandbox never aliases the
	// caller's slices.
	return &Sandbox{
		root:       cfg.Root,
		mounts:     slices.Concat(mounts, cfg.ExtraMounts),
		diversions: slices.Concat(diversions, cfg.ExtraDiversions),
		swaps:      slices.Concat(swaps, cfg.ExtraSwaps),
		phase:      PhaseIdle,
	}
}

// The phase the last Execute call reached.
func (s *Sandbox) Phase() Phase {
	return s.phase
}

// Runs a registered target to completion inside the sandbox and returns its
// result.
//
// Setup applies mounts in declaration order, then diversions, then swaps.
// The target runs in a child process chrooted into the root. Teardown always
// runs, even when setup itself failed partway: dangling processes rooted at
// the sandbox are killed, diversions and swaps are undone, and mounts are
// unmounted in reverse order. Unmount failures are aggregated and reported
// once after all teardown work has been attempted, ahead of the setup or
// execution failure they accompany; both stay inspectable with errors.Is.
//
// The context covers setup and teardown subprocesses. The wait for the child
// itself is unbounded.
func (s *Sandbox) Execute(ctx context.Context, target string, args ...string) (string, error) {
	slog.Debug("set up the sandbox", "root", s.root, "pid", os.Getpid())
	s.phase = PhaseSettingUp

	var result string
	var execErr error

	setupErr := s.setup(ctx)
	if setupErr == nil {
		s.phase = PhaseRunning
		result, execErr = executeChild(s.root, target, args)
	}

	slog.Debug("clean up the sandbox", "root", s.root, "pid", os.Getpid())
	s.phase = PhaseTearingDown
	cleanupErr := s.teardown(ctx)

	// Cleanup failures come first, then the failure that caused them.
	if err := errors.Join(cleanupErr, setupErr, execErr); err != nil {
		s.phase = PhaseFailed
		return "", err
	}

	s.phase = PhaseDone
	return result, nil
}

// Applies mounts in declaration order, then diversions, then swaps. Fails
// fast on the first error; whatever was applied is reverted by teardown.
func (s *Sandbox) setup(ctx context.Context) error {
	for _, m := range s.mounts {
		if err := m.mount(s.root); err != nil {
			return err
		}
	}
	for _, d := range s.diversions {
		if err := d.divert(ctx, s.root); err != nil {
			return err
		}
	}
	for _, f := range s.swaps {
		if err := f.swap(s.root); err != nil {
			return err
		}
	}
	return nil
}

// Reverses everything setup did, best effort.
//
// Diversion and swap failures are logged and skipped so the remaining
// resources are still reclaimed. Unmount failures are collected and
// reported as one aggregated error after every unmount has been attempted.
func (s *Sandbox) teardown(ctx context.Context) error {
	s.killDanglingProcesses()

	for _, d := range s.diversions {
		if err := d.undivert(ctx); err != nil {
			slog.Warn("failed to remove diversion", "target", d.Target, "error", err)
		}
	}
	for _, f := range s.swaps {
		if err := f.restore(); err != nil {
			slog.Warn("failed to restore swapped file", "target", f.Target, "error", err)
		}
	}

	var errs []error
	for i := len(s.mounts) - 1; i >= 0; i-- {
		if err := s.mounts[i].unmount(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrCleanup, errors.Join(errs...))
	}
	return nil
}

// Kills processes whose root directory resolves to the sandbox root, so
// mountpoints can be unmounted. Best effort: the scan races against
// processes started after it, a limitation inherent to scanning the
// process table.
func (s *Sandbox) killDanglingProcesses() {
	entries, err := os.ReadDir(filepath.Join(s.root, "proc"))
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		link, err := os.Readlink(filepath.Join(s.root, "proc", entry.Name(), "root"))
		if err != nil || link != s.root {
			continue
		}

		slog.Debug("killing dangling process", "pid", pid)
		if err := unix.Kill(pid, unix.SIGKILL); err != nil {
			slog.Warn("failed to kill dangling process", "pid", pid, "error", err)
		}
	}
}
