//go:build linux

package device

import "golang.org/x/sys/unix"

// totalMemory returns physical RAM in bytes via sysinfo(2).
func totalMemory() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(info.Totalram) * unit, true
}
