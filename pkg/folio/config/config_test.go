package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and XDG_CONFIG_HOME at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBuildCommand, cfg.Build.Command)
	assert.Equal(t, DefaultBuildArgs, cfg.Build.Args)
	assert.Equal(t, DefaultOutputDir, cfg.Build.OutputDir)
	assert.Equal(t, DefaultReportPath, cfg.Report.Path)
	assert.Equal(t, DefaultBudgetPath, cfg.Report.BudgetPath)
	assert.Equal(t, DefaultFormat, cfg.Report.Format)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, DefaultRetentionDays, cfg.History.RetentionDays)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "10MB", cfg.Logging.Rotation.MaxSize)
	assert.Empty(t, cfg.Sources)
}

func TestLoad_FromUserFile(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "folio")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := `
build:
  command: pnpm
  args: [build]
  output_dir: dist/chunks
history:
  enabled: false
  retention_days: 7
metrics:
  textfile: ~/metrics/folio.prom
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "pnpm", cfg.Build.Command)
	assert.Equal(t, []string{"build"}, cfg.Build.Args)
	assert.Equal(t, "dist/chunks", cfg.Build.OutputDir)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 7, cfg.History.RetentionDays)
	assert.Equal(t, filepath.Join(home, "metrics", "folio.prom"), cfg.Metrics.Textfile)
	assert.Equal(t, DefaultReportPath, cfg.Report.Path)
	require.Len(t, cfg.Sources, 1)
}

func TestLoad_ProjectFileOverridesUserFile(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "folio")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("report:\n  format: plain\n  path: user.json\n"), 0o644))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile),
		[]byte("report:\n  path: out/report.json\n"), 0o644))

	cfg, err := LoadFrom(project)
	require.NoError(t, err)

	assert.Equal(t, "out/report.json", cfg.Report.Path)
	assert.Equal(t, "plain", cfg.Report.Format)
	assert.Len(t, cfg.Sources, 2)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FOLIO_BUILD_OUTPUT_DIR", "build/js")
	t.Setenv("FOLIO_REPORT_FORMAT", "json")
	t.Setenv("FOLIO_HISTORY_RETENTION_DAYS", "3")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "build/js", cfg.Build.OutputDir)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, 3, cfg.History.RetentionDays)
}

func TestLoad_InvalidFile(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "folio")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("build: [unclosed"), 0o644))

	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestDefaultMatchesLoad(t *testing.T) {
	isolate(t)

	loaded, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Build, loaded.Build)
	assert.Equal(t, def.Report, loaded.Report)
	assert.Equal(t, def.History, loaded.History)
}

func TestWriteDefault(t *testing.T) {
	xdgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	created, err := WriteDefault()
	require.NoError(t, err)
	assert.True(t, created)

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdgHome, "folio", "config.yaml"), path)

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Build.OutputDir)
	assert.Equal(t, DefaultBuildArgs, cfg.Build.Args)
	assert.Equal(t, []string{path}, cfg.Sources)

	created, err = WriteDefault()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)

	tests := []struct {
		in   string
		want string
	}{
		{in: "~/x/y", want: filepath.Join(home, "x", "y")},
		{in: "/abs/path", want: "/abs/path"},
		{in: "relative", want: "relative"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
