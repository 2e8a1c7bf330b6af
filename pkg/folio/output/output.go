// Package output renders folio results (bundle audits and device
// profiles) in the formats selectable with --output: pretty, plain, json
// and yaml.
//
// Formatters are looked up by name from a registry:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/tuner"
)

// Result is one completed audit and where its artifacts went.
type Result struct {
	Report *bundle.Report

	// ReportPath and BudgetPath are the files written by the audit.
	ReportPath string
	BudgetPath string

	// BuildDuration is how long the external build took.
	BuildDuration time.Duration
}

// Files returns the report files ordered by size descending, ties broken
// by name.
func (r *Result) Files() []bundle.Artifact {
	if r.Report == nil {
		return nil
	}
	return bundle.BySize(r.Report.Files)
}

// MainGrade returns the grade of the largest entry bundle and whether one
// exists.
func (r *Result) MainGrade() (bundle.Artifact, string, bool) {
	if r.Report == nil {
		return bundle.Artifact{}, "", false
	}
	m, ok := bundle.Main(r.Report.Files)
	if !ok {
		return bundle.Artifact{}, "", false
	}
	return m, bundle.Grade(m.Size), true
}

// DeviceView is a classified profile with the configuration derived from
// it and, optionally, an optimized image URL.
type DeviceView struct {
	Profile  device.Profile `json:"profile" yaml:"profile"`
	Config   tuner.Config   `json:"config" yaml:"config"`
	ImageSrc string         `json:"image_src,omitempty" yaml:"image_src,omitempty"`
	ImageURL string         `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Formatter renders folio results.
type Formatter interface {
	// Format writes an audit result.
	Format(w *bytes.Buffer, r *Result) error

	// FormatDevice writes a device profile view.
	FormatDevice(w *bytes.Buffer, v *DeviceView) error
}

// FormatterFactory creates a new Formatter.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds a factory, replacing any existing one with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
