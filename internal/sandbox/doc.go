// Package sandbox runs step logic inside a reversible chroot environment.
//
// A [Sandbox] binds an ordered list of mounts, package-manager file
// diversions, and temporary file content swaps to a root filesystem. Execute
// applies them, runs a registered target in a genuine child process that
// chroots into the root, and then reverses everything: dangling processes
// rooted at the sandbox are killed, diversions and swaps are undone, and
// mounts are unmounted in reverse order with failures aggregated rather
// than aborting teardown early.
//
// Mounts, diversions, and the mount table are process-wide OS state, so a
// sandbox root must not be shared by concurrent Execute calls. The wait for
// the child is unbounded; cancellation only covers setup and teardown
// subprocesses.
//
// Example usage:
//
//	sb := sandbox.New(sandbox.Config{Root: "/work/overlay/root"})
//
//	out, err := sb.Execute(ctx, "install-packages", "libssl-dev")
//	if err != nil {
//	    return err
//	}
package sandbox
