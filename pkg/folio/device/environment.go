package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment is the set of host signals the classifier reads. Optional
// numeric signals report availability alongside the value.
type Environment interface {
	// Viewport returns the inner width and height in CSS pixels.
	Viewport() (width, height int)

	// HardwareConcurrency returns the logical core count, if known.
	HardwareConcurrency() (int, bool)

	// DeviceMemory returns the approximate device memory in GB, if known.
	DeviceMemory() (float64, bool)

	UserAgent() string
	PixelRatio() float64
	PrefersReducedMotion() bool
}

// Snapshot is a recorded Environment. Nil pointer fields are treated as
// unavailable signals. Snapshots load from YAML or JSON.
type Snapshot struct {
	Width         int      `json:"width" yaml:"width"`
	Height        int      `json:"height" yaml:"height"`
	Cores         *int     `json:"cores,omitempty" yaml:"cores,omitempty"`
	MemoryGB      *float64 `json:"memory_gb,omitempty" yaml:"memory_gb,omitempty"`
	Agent         string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	DPR           float64  `json:"dpr,omitempty" yaml:"dpr,omitempty"`
	ReducedMotion bool     `json:"reduced_motion,omitempty" yaml:"reduced_motion,omitempty"`
}

var _ Environment = Snapshot{}

// Viewport implements Environment.
func (s Snapshot) Viewport() (int, int) { return s.Width, s.Height }

// HardwareConcurrency implements Environment.
func (s Snapshot) HardwareConcurrency() (int, bool) {
	if s.Cores == nil {
		return 0, false
	}
	return *s.Cores, true
}

// DeviceMemory implements Environment.
func (s Snapshot) DeviceMemory() (float64, bool) {
	if s.MemoryGB == nil {
		return 0, false
	}
	return *s.MemoryGB, true
}

// UserAgent implements Environment.
func (s Snapshot) UserAgent() string { return s.Agent }

// PixelRatio implements Environment.
func (s Snapshot) PixelRatio() float64 { return s.DPR }

// PrefersReducedMotion implements Environment.
func (s Snapshot) PrefersReducedMotion() bool { return s.ReducedMotion }

// WithCores returns a copy of s reporting n logical cores.
func (s Snapshot) WithCores(n int) Snapshot {
	s.Cores = &n
	return s
}

// WithMemory returns a copy of s reporting gb of device memory.
func (s Snapshot) WithMemory(gb float64) Snapshot {
	s.MemoryGB = &gb
	return s
}

// ParseSnapshot decodes a snapshot document. JSON documents are accepted
// because they are valid YAML.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	return s, nil
}

// LoadSnapshot reads and decodes a snapshot file.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	s, err := ParseSnapshot(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
