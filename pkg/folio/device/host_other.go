//go:build !linux && !darwin

package device

// totalMemory is unsupported here; memory is reported as unknown.
func totalMemory() (uint64, bool) {
	return 0, false
}
