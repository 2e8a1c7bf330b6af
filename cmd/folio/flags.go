package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/config"
	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/output"
	"github.com/jamesainslie/folio/pkg/folio/tuner"
)

// Output flags.
var (
	outputFormat string
	templateStr  string
)

// deviceFlags are the environment overrides shared by device and image.
type deviceFlags struct {
	snapshot      string
	host          bool
	width         int
	height        int
	cores         int
	memory        float64
	userAgent     string
	dpr           float64
	reducedMotion bool
	maxParticles  int
}

// register adds the flags to cmd.
func (f *deviceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.snapshot, "snapshot", "", "environment snapshot file (YAML or JSON)")
	fs.BoolVar(&f.host, "host", false, "start from this machine's cores and memory")
	fs.IntVar(&f.width, "width", 0, "viewport width in CSS pixels")
	fs.IntVar(&f.height, "height", 0, "viewport height in CSS pixels")
	fs.IntVar(&f.cores, "cores", 0, "hardware concurrency")
	fs.Float64Var(&f.memory, "memory", 0, "device memory in GB")
	fs.StringVar(&f.userAgent, "ua", "", "user agent string")
	fs.Float64Var(&f.dpr, "dpr", 0, "device pixel ratio")
	fs.BoolVar(&f.reducedMotion, "reduced-motion", false, "prefer reduced motion")
	fs.IntVar(&f.maxParticles, "max-particles", 0, "cap the particle count (0 = no cap)")
}

// snapshotFrom builds the environment described by the flags. A snapshot
// file or the host probe is the base; flags that were set override it.
func (f *deviceFlags) snapshotFrom(cmd *cobra.Command) (device.Snapshot, error) {
	var snap device.Snapshot
	switch {
	case f.snapshot != "":
		path, err := config.ExpandPath(f.snapshot)
		if err != nil {
			return device.Snapshot{}, err
		}
		if snap, err = device.LoadSnapshot(path); err != nil {
			return device.Snapshot{}, err
		}
	case f.host:
		snap = device.HostSnapshot()
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		snap.Width = f.width
	}
	if changed("height") {
		snap.Height = f.height
	}
	if changed("cores") {
		snap = snap.WithCores(f.cores)
	}
	if changed("memory") {
		snap = snap.WithMemory(f.memory)
	}
	if changed("ua") {
		snap.Agent = f.userAgent
	}
	if changed("dpr") {
		snap.DPR = f.dpr
	}
	if changed("reduced-motion") {
		snap.ReducedMotion = f.reducedMotion
	}
	return snap, nil
}

func (f *deviceFlags) overrides() tuner.Overrides {
	return tuner.Overrides{MaxParticles: f.maxParticles}
}

// resolveFormatter picks the formatter from --output, then the config
// file, then pretty.
func resolveFormatter(c *config.Config) (output.Formatter, error) {
	name := strings.ToLower(strings.TrimSpace(outputFormat))
	if name == "" && c != nil {
		name = c.Report.Format
	}
	if name == "" {
		name = config.DefaultFormat
	}
	if templateStr != "" && name != "template" {
		name = "template"
	}

	formatter, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(output.Available(), ", "))
	}
	if tf, ok := formatter.(*output.TemplateFormatter); ok && templateStr != "" {
		tf.SetTemplate(templateStr)
	}
	return formatter, nil
}

// isPretty reports whether the resolved format is the styled one.
func isPretty(f output.Formatter) bool {
	_, ok := f.(*output.PrettyFormatter)
	return ok
}
