// Package metrics exports audit results as Prometheus gauges in the
// node-exporter textfile format.
package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/logging"
)

const namespace = "folio"

var statuses = []bundle.Status{bundle.StatusPassed, bundle.StatusWarning, bundle.StatusFailed}

// TextfileExporter writes the gauges of the latest report to a .prom file.
type TextfileExporter struct {
	Path string
}

// NewTextfileExporter returns an exporter writing to path.
func NewTextfileExporter(path string) *TextfileExporter {
	return &TextfileExporter{Path: path}
}

// Gatherer builds a registry holding the gauges for r.
func Gatherer(r *bundle.Report) *prometheus.Registry {
	total := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bundle",
		Name:      "total_kilobytes",
		Help:      "Total size of emitted JavaScript chunks in KB.",
	})
	files := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bundle",
		Name:      "file_kilobytes",
		Help:      "Size of each emitted JavaScript chunk in KB.",
	}, []string{"file"})
	checks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bundle",
		Name:      "checks",
		Help:      "Number of budget violations by kind.",
	}, []string{"kind"})
	status := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "bundle",
		Name:      "status",
		Help:      "Outcome of the last audit, one-hot by status.",
	}, []string{"status"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(total, files, checks, status)

	total.Set(float64(r.TotalSize))
	for _, f := range r.Files {
		files.WithLabelValues(f.Name).Set(float64(f.Size))
	}
	checks.WithLabelValues("error").Set(float64(len(r.Checks.Errors)))
	checks.WithLabelValues("warning").Set(float64(len(r.Checks.Warnings)))
	for _, s := range statuses {
		v := 0.0
		if s == r.Status {
			v = 1
		}
		status.WithLabelValues(string(s)).Set(v)
	}
	return reg
}

// Record writes the gauges for r, replacing the previous file.
func (e *TextfileExporter) Record(r *bundle.Report) error {
	if r == nil {
		return errors.New("metrics: nil report")
	}
	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return fmt.Errorf("creating metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(e.Path, Gatherer(r)); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}

	logging.Get("metrics").Debug("wrote textfile", "path", e.Path, "files", len(r.Files))
	return nil
}
