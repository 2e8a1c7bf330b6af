package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jamesainslie/folio/pkg/folio/types"
)

// PlainFormatter formats output as plain tab-aligned text for scripting.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.Report == nil {
		return fmt.Errorf("no report to format")
	}
	rep := r.Report

	fmt.Fprintf(w, "status: %s\n", rep.Status)
	fmt.Fprintf(w, "total: %s\n", types.FormatKB(rep.TotalSize))
	fmt.Fprintf(w, "chunks: %d\n", len(rep.Files))
	for _, e := range rep.Checks.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, warn := range rep.Checks.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	w.WriteString("\n")

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	if _, err := tw.Write([]byte("SIZE\tFILE\n")); err != nil {
		return err
	}
	for _, file := range r.Files() {
		if _, err := tw.Write([]byte(types.FormatKB(file.Size) + "\t" + file.Name + "\n")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// FormatDevice writes the profile and configuration as key: value lines.
func (f *PlainFormatter) FormatDevice(w *bytes.Buffer, v *DeviceView) error {
	p, c := v.Profile, v.Config

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	rows := [][2]string{
		{"class", string(p.Class)},
		{"viewport", fmt.Sprintf("%dx%d", p.ViewportWidth, p.ViewportHeight)},
		{"pixel_ratio", fmt.Sprintf("%g", p.DevicePixelRatio)},
		{"low_power", fmt.Sprintf("%t", p.LowPower)},
		{"reduced_motion", fmt.Sprintf("%t", p.PrefersReducedMotion)},
		{"particle_count", fmt.Sprintf("%d", c.ParticleCount)},
		{"animation_duration_scale", fmt.Sprintf("%g", c.AnimationDurationScale)},
		{"enable_complex_animations", fmt.Sprintf("%t", c.EnableComplexAnimations)},
		{"enable_parallax", fmt.Sprintf("%t", c.EnableParallax)},
		{"enable_blur", fmt.Sprintf("%t", c.EnableBlur)},
		{"enable_scroll_reveal", fmt.Sprintf("%t", c.EnableScrollReveal)},
		{"reduced_frame_rate", fmt.Sprintf("%t", c.ReducedFrameRate)},
		{"image_quality", string(c.ImageQuality)},
		{"debounce_ms", fmt.Sprintf("%d", c.DebounceMs)},
	}
	if v.ImageURL != "" {
		rows = append(rows, [2]string{"image_url", v.ImageURL})
	}
	for _, row := range rows {
		if _, err := tw.Write([]byte(strings.Join(row[:], "\t") + "\n")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
