package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/build"
	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/config"
	"github.com/jamesainslie/folio/pkg/folio/history"
	"github.com/jamesainslie/folio/pkg/folio/output"
)

// newDeviceCommand returns a throwaway command carrying the device flags.
func newDeviceCommand(t *testing.T, args ...string) (*cobra.Command, *deviceFlags) {
	t.Helper()
	f := &deviceFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return cmd, f
}

func TestSnapshotFromFlags(t *testing.T) {
	cmd, f := newDeviceCommand(t, "--width", "390", "--height", "844", "--cores", "2", "--dpr", "3", "--reduced-motion")

	snap, err := f.snapshotFrom(cmd)
	if err != nil {
		t.Fatalf("snapshotFrom() error: %v", err)
	}

	if snap.Width != 390 || snap.Height != 844 {
		t.Errorf("viewport = %dx%d, want 390x844", snap.Width, snap.Height)
	}
	if cores, ok := snap.HardwareConcurrency(); !ok || cores != 2 {
		t.Errorf("HardwareConcurrency() = %d, %v; want 2, true", cores, ok)
	}
	if _, ok := snap.DeviceMemory(); ok {
		t.Error("memory was not set and should be unavailable")
	}
	if snap.DPR != 3 {
		t.Errorf("DPR = %g, want 3", snap.DPR)
	}
	if !snap.ReducedMotion {
		t.Error("expected reduced motion")
	}
}

func TestSnapshotFromFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phone.yaml")
	doc := "width: 390\nheight: 844\nmemory_gb: 2\nuser_agent: Mozilla/5.0 (Linux; Android 13; SM-A135F)\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	cmd, f := newDeviceCommand(t, "--snapshot", path, "--width", "800")
	snap, err := f.snapshotFrom(cmd)
	if err != nil {
		t.Fatalf("snapshotFrom() error: %v", err)
	}

	if snap.Width != 800 {
		t.Errorf("Width = %d, want the flag override 800", snap.Width)
	}
	if snap.Height != 844 {
		t.Errorf("Height = %d, want 844 from the file", snap.Height)
	}
	if mem, ok := snap.DeviceMemory(); !ok || mem != 2 {
		t.Errorf("DeviceMemory() = %g, %v; want 2, true", mem, ok)
	}
	if !strings.Contains(snap.Agent, "SM-A135F") {
		t.Errorf("Agent = %q, want the file's agent", snap.Agent)
	}
}

func TestSnapshotFromMissingFile(t *testing.T) {
	cmd, f := newDeviceCommand(t, "--snapshot", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := f.snapshotFrom(cmd); err == nil {
		t.Error("expected error for missing snapshot file")
	}
}

func TestDeviceFlagsOverrides(t *testing.T) {
	_, f := newDeviceCommand(t, "--max-particles", "4")
	if got := f.overrides().MaxParticles; got != 4 {
		t.Errorf("MaxParticles = %d, want 4", got)
	}
}

func TestResolveFormatter(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		template string
		config   *config.Config
		wantType string
		wantErr  bool
	}{
		{name: "default is pretty", config: nil, wantType: "*output.PrettyFormatter"},
		{name: "flag wins", flag: "json", config: &config.Config{Report: config.ReportConfig{Format: "yaml"}}, wantType: "*output.JSONFormatter"},
		{name: "config format", config: &config.Config{Report: config.ReportConfig{Format: "plain"}}, wantType: "*output.PlainFormatter"},
		{name: "flag is case insensitive", flag: " JSONL ", wantType: "*output.JSONLFormatter"},
		{name: "template flag forces template", flag: "json", template: "{{.Status}}", wantType: "*output.TemplateFormatter"},
		{name: "unknown format", flag: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputFormat, templateStr = tt.flag, tt.template
			t.Cleanup(func() { outputFormat, templateStr = "", "" })

			f, err := resolveFormatter(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), "available: ") {
					t.Errorf("error %q should list the available formats", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveFormatter() error: %v", err)
			}
			if got := fmt.Sprintf("%T", f); got != tt.wantType {
				t.Errorf("formatter = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestResolveFormatterAppliesTemplate(t *testing.T) {
	templateStr = "{{.Status}}"
	t.Cleanup(func() { templateStr = "" })

	f, err := resolveFormatter(nil)
	if err != nil {
		t.Fatalf("resolveFormatter() error: %v", err)
	}

	var buf bytes.Buffer
	r := &output.Result{Report: &bundle.Report{Status: bundle.StatusWarning}}
	if err := f.Format(&buf, r); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if buf.String() != "warning" {
		t.Errorf("output = %q, want %q", buf.String(), "warning")
	}
}

func TestFormatHistoryTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []history.Entry{
		{
			ID:           "0f8e4a52-1111-4c3b-9d2e-5a6b7c8d9e0f",
			Timestamp:    now.Add(-2 * time.Hour),
			Status:       bundle.StatusFailed,
			TotalSize:    520,
			FileCount:    4,
			ErrorCount:   1,
			WarningCount: 2,
		},
	}

	table := formatHistoryTable(entries, now)
	for _, want := range []string{"ID", "STATUS", "ISSUES", "0f8e4a52-1111-4c3b-9d2e-5a6b7c8d9e0f", "2 hours ago", "failed", "520 KiB", "1E 2W"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}

func TestReportAuditError(t *testing.T) {
	buildErr := &build.Error{Command: "npm run build", ExitCode: 2, Output: []byte("tsc: type error")}

	tests := []struct {
		name         string
		err          error
		echoed       bool
		wantReported bool
		wantOut      []string
		notOut       []string
	}{
		{
			name:         "build failure shows output",
			err:          buildErr,
			wantReported: true,
			wantOut:      []string{"tsc: type error\n", "Error: build failed: npm run build exited with status 2"},
		},
		{
			name:         "echoed build output is not repeated",
			err:          buildErr,
			echoed:       true,
			wantReported: true,
			wantOut:      []string{"Error: build failed"},
			notOut:       []string{"tsc: type error"},
		},
		{
			name:         "missing output directory",
			err:          fmt.Errorf("dist/assets: %w", bundle.ErrOutputMissing),
			wantReported: true,
			wantOut:      []string{"Error: dist/assets: build output directory not found"},
		},
		{
			name: "other errors pass through",
			err:  errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			got := reportAuditError(&buf, tt.err, tt.echoed, false)

			if tt.wantReported {
				if !errors.Is(got, errReported) {
					t.Errorf("reportAuditError() = %v, want errReported", got)
				}
			} else if got != tt.err {
				t.Errorf("reportAuditError() = %v, want the original error", got)
			}

			for _, want := range tt.wantOut {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
			for _, not := range tt.notOut {
				if strings.Contains(buf.String(), not) {
					t.Errorf("output should not contain %q:\n%s", not, buf.String())
				}
			}
		})
	}
}

func TestFormatConfig(t *testing.T) {
	c := config.Default()
	c.Sources = []string{"/home/me/.config/folio/config.yaml"}

	out := formatConfig(c)
	for _, want := range []string{
		"Config files: /home/me/.config/folio/config.yaml",
		"build.command:          " + config.DefaultBuildCommand,
		"build.output_dir:       " + config.DefaultOutputDir,
		"metrics.textfile:       (disabled)",
		"logging.rotation:       10MB, 5 backups, 30 days",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatConfig() missing %q:\n%s", want, out)
		}
	}

	c.Sources = nil
	if !strings.Contains(formatConfig(c), "using defaults") {
		t.Error("expected defaults notice without sources")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
