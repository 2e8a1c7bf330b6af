package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/types"
)

// DefaultLargestFiles is how many files the pretty formatter lists.
const DefaultLargestFiles = 5

// Per-file size markers, in KB.
const (
	markerRedKB    = 100
	markerYellowKB = 50
)

// PrettyFormatter formats output with colors and styling using lipgloss.
type PrettyFormatter struct {
	// MaxFiles caps the largest-files list. Zero lists every file.
	MaxFiles int
}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.Report == nil {
		return fmt.Errorf("no report to format")
	}

	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	if len(r.Report.Checks.Errors) > 0 {
		w.WriteString(f.formatList(ErrorStyle.Bold(true).Render("Errors"), ErrorStyle, r.Report.Checks.Errors))
		w.WriteString("\n")
	}
	if len(r.Report.Checks.Warnings) > 0 {
		w.WriteString(f.formatList(WarningStyle.Bold(true).Render("Warnings"), WarningStyle, r.Report.Checks.Warnings))
		w.WriteString("\n")
	}

	w.WriteString(f.formatFiles(r))

	if len(r.Report.Recommendations) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatList(TitleStyle.Render("Recommendations"), ValueStyle, r.Report.Recommendations))
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	rep := r.Report
	var lines []string

	lines = append(lines, TitleStyle.Render("Bundle Size Analysis"))
	lines = append(lines, fmt.Sprintf("%s %s %s",
		LabelStyle.Render("Total:"),
		SizeStyle.Render(types.FormatKB(rep.TotalSize)),
		MutedStyle.Render("/ "+types.FormatKB(bundle.TotalLimitKB))))

	info := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Chunks:"), ValueStyle.Render(fmt.Sprintf("%d", len(rep.Files)))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Status:"), StatusStyle(string(rep.Status)).Render(strings.ToUpper(string(rep.Status)))),
	}
	if r.BuildDuration > 0 {
		info = append(info, fmt.Sprintf("%s %s", LabelStyle.Render("Build:"), ValueStyle.Render(formatDuration(r.BuildDuration))))
	}
	lines = append(lines, strings.Join(info, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatList(title string, style lipgloss.Style, items []string) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString("  • ")
		sb.WriteString(style.Render(item))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFiles(r *Result) string {
	files := r.Files()
	if len(files) == 0 {
		return MutedStyle.Render("  No JavaScript chunks found") + "\n"
	}

	shown := files
	if f.MaxFiles > 0 && len(shown) > f.MaxFiles {
		shown = shown[:f.MaxFiles]
	}

	width := 6
	for _, file := range shown {
		if n := len(types.FormatKB(file.Size)); n > width {
			width = n
		}
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Largest Files"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("     %s  %s\n", TableHeaderStyle.Render(padLeft("SIZE", width)), TableHeaderStyle.Render("FILE")))
	for _, file := range shown {
		sb.WriteString(fmt.Sprintf("  %s %s  %s\n",
			marker(file.Size),
			SizeStyle.Render(padLeft(types.FormatKB(file.Size), width)),
			ValueStyle.Render(file.Name)))
	}
	if hidden := len(files) - len(shown); hidden > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more", hidden)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	var lines []string

	if m, grade, ok := r.MainGrade(); ok {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			LabelStyle.Render("Grade:"),
			SizeStyle.Render(grade),
			MutedStyle.Render(fmt.Sprintf("(%s %s)", m.Name, types.FormatKB(m.Size)))))
	}
	if r.ReportPath != "" {
		lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Report:"), ValueStyle.Render(r.ReportPath)))
	}
	if r.BudgetPath != "" {
		lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render("Budget:"), ValueStyle.Render(r.BudgetPath)))
	}

	if r.Report.Passed() {
		lines = append(lines, SuccessStyle.Bold(true).Render("Bundle size check passed"))
	} else {
		lines = append(lines, ErrorStyle.Bold(true).Render("Bundle size check failed"))
	}

	return FooterBox.Render(strings.Join(lines, "\n"))
}

// FormatDevice writes a device profile and its derived configuration.
func (f *PrettyFormatter) FormatDevice(w *bytes.Buffer, v *DeviceView) error {
	p := v.Profile
	var lines []string

	lines = append(lines, TitleStyle.Render("Device Profile"))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Class:"), SizeStyle.Render(string(p.Class)),
		LabelStyle.Render("Viewport:"), ValueStyle.Render(fmt.Sprintf("%dx%d @%gx", p.ViewportWidth, p.ViewportHeight, p.DevicePixelRatio))))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Low power:"), flag(p.LowPower),
		LabelStyle.Render("Reduced motion:"), flag(p.PrefersReducedMotion)))
	w.WriteString(HeaderBox.Render(strings.Join(lines, "\n")))
	w.WriteString("\n")

	c := v.Config
	rows := [][2]string{
		{"Particles", fmt.Sprintf("%d", c.ParticleCount)},
		{"Animation scale", fmt.Sprintf("%g", c.AnimationDurationScale)},
		{"Complex animations", onOff(c.EnableComplexAnimations)},
		{"Parallax", onOff(c.EnableParallax)},
		{"Blur", onOff(c.EnableBlur)},
		{"Scroll reveal", onOff(c.EnableScrollReveal)},
		{"Reduced frame rate", onOff(c.ReducedFrameRate)},
		{"Image quality", string(c.ImageQuality)},
		{"Debounce", fmt.Sprintf("%dms", c.DebounceMs)},
	}
	w.WriteString(TitleStyle.Render("Performance Config"))
	w.WriteString("\n")
	for _, row := range rows {
		w.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render(padRight(row[0]+":", 20)), ValueStyle.Render(row[1])))
	}

	if v.ImageURL != "" {
		w.WriteString(FooterBox.Render(fmt.Sprintf("%s %s", LabelStyle.Render("Image:"), ValueStyle.Render(v.ImageURL))))
		w.WriteString("\n")
	}
	return nil
}

func marker(kb int64) string {
	switch {
	case kb > markerRedKB:
		return "🔴"
	case kb > markerYellowKB:
		return "🟡"
	default:
		return "🟢"
	}
}

func flag(b bool) string {
	if b {
		return WarningStyle.Render("yes")
	}
	return MutedStyle.Render("no")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{MaxFiles: DefaultLargestFiles}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
