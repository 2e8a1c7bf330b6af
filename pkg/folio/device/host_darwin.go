//go:build darwin

package device

import "golang.org/x/sys/unix"

// totalMemory returns physical RAM in bytes via the hw.memsize sysctl.
func totalMemory() (uint64, bool) {
	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, false
	}
	return memsize, true
}
