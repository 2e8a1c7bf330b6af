package device

import (
	"runtime"

	"github.com/jamesainslie/folio/pkg/folio/types"
)

// hostEnv reports the machine folio runs on. It has no viewport, so the
// default is used.
type hostEnv struct {
	cores    int
	memoryGB float64
	memKnown bool
}

// Host probes the current machine: logical cores from the runtime and
// physical memory from the operating system where supported.
func Host() Environment {
	return probeHost()
}

func probeHost() hostEnv {
	env := hostEnv{cores: runtime.NumCPU()}
	if bytes, ok := totalMemory(); ok {
		env.memoryGB = float64(bytes) / float64(types.GiB)
		env.memKnown = true
	}
	return env
}

func (h hostEnv) Viewport() (int, int) { return DefaultWidth, DefaultHeight }

func (h hostEnv) HardwareConcurrency() (int, bool) { return h.cores, h.cores > 0 }

func (h hostEnv) DeviceMemory() (float64, bool) { return h.memoryGB, h.memKnown }

func (h hostEnv) UserAgent() string { return "" }

func (h hostEnv) PixelRatio() float64 { return DefaultPixelRatio }

func (h hostEnv) PrefersReducedMotion() bool { return false }

// Snapshot records the host signals so they can be edited and replayed.
func (h hostEnv) Snapshot() Snapshot {
	s := Snapshot{Width: DefaultWidth, Height: DefaultHeight, DPR: DefaultPixelRatio}.WithCores(h.cores)
	if h.memKnown {
		s = s.WithMemory(h.memoryGB)
	}
	return s
}

// HostSnapshot is Host captured as an editable Snapshot.
func HostSnapshot() Snapshot {
	return probeHost().Snapshot()
}
