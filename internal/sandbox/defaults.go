package sandbox

// Inert start-stop-daemon so package maintainer scripts cannot start
// services inside the sandbox.
const startStopDaemonContent = `#!/bin/sh
echo
echo "Warning: Fake start-stop-daemon called, doing nothing"
`

// Inert initctl, still answering version queries via the preserved original.
const initctlContent = `#!/bin/sh
if [ "$1" = version ]; then exec /sbin/initctl.REAL "$@"; fi
echo
echo "Warning: Fake initctl called, doing nothing"
`

// Essential filesystems for basic utilities and name resolution to work
// inside the sandbox. Order matters: devpts nests under dev and must come
// after it so reverse-order teardown unmounts it first.
func DefaultMounts() []*Mount {
	return []*Mount{
		{Source: "/etc/resolv.conf", RelativeMountpoint: "/etc/resolv.conf", Options: []string{"bind"}},
		{FSType: "proc", Source: "proc", RelativeMountpoint: "/proc"},
		{FSType: "sysfs", Source: "sysfs", RelativeMountpoint: "/sys"},
		{FSType: "devtmpfs", Source: "devtmpfs", RelativeMountpoint: "/dev"},
		{FSType: "devpts", Source: "devpts", RelativeMountpoint: "/dev/pts", Options: []string{"nodev", "nosuid"}},
	}
}

// Diverts policy-rc.d so packages installed in the sandbox cannot start or
// restart host services.
func DefaultDiversions() []*Diversion {
	return []*Diversion{
		{Target: "/usr/sbin/policy-rc.d"},
	}
}

// Swaps init-related tools for inert versions while the sandbox is active.
func DefaultSwaps() []*FileSwapper {
	return []*FileSwapper{
		{Target: "/sbin/start-stop-daemon", Content: startStopDaemonContent},
		{Target: "/sbin/initctl", Content: initctlContent},
	}
}
