package bundle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKB creates name inside dir with exactly kb kilobytes.
func writeKB(t *testing.T, dir, name string, kb int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, kb*1024), 0o644))
}

func artifacts(pairs ...any) []Artifact {
	var out []Artifact
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Artifact{Name: pairs[i].(string), Size: int64(pairs[i+1].(int))})
	}
	return out
}

func TestCollect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeKB(t, dir, "main-abc.js", 120)
	writeKB(t, dir, "framework.js", 40)
	writeKB(t, dir, "app.js.map", 300)
	writeKB(t, dir, "styles.css", 10)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.js"), make([]byte, 1536), 0o644))

	sub := filepath.Join(dir, "pages")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeKB(t, sub, "index.js", 90)

	got, err := Collect(dir)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "framework.js", got[0].Name)
	assert.Equal(t, int64(40), got[0].Size)
	assert.Equal(t, "main-abc.js", got[1].Name)
	assert.Equal(t, int64(120), got[1].Size)
	assert.Equal(t, "tiny.js", got[2].Name)
	assert.Equal(t, int64(2), got[2].Size, "1.5KB rounds up")
	assert.Equal(t, filepath.Join(dir, "main-abc.js"), got[1].Path)
}

func TestCollectFollowsSymlinkedChunks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shared := t.TempDir()
	writeKB(t, shared, "vendor-real.js", 70)
	require.NoError(t, os.Mkdir(filepath.Join(shared, "nested.js"), 0o755))

	writeKB(t, dir, "main.js", 30)
	if err := os.Symlink(filepath.Join(shared, "vendor-real.js"), filepath.Join(dir, "vendor.js")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(shared, "gone.js"), filepath.Join(dir, "dangling.js")))
	require.NoError(t, os.Symlink(filepath.Join(shared, "nested.js"), filepath.Join(dir, "dir.js")))

	got, err := Collect(dir)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "main.js", got[0].Name)
	assert.Equal(t, "vendor.js", got[1].Name)
	assert.Equal(t, int64(70), got[1].Size, "symlinked chunk is measured at its target")
	assert.Equal(t, filepath.Join(dir, "vendor.js"), got[1].Path)
}

func TestCollectEmptyDir(t *testing.T) {
	t.Parallel()

	got, err := Collect(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollectMissingOutput(t *testing.T) {
	t.Parallel()

	_, err := Collect(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrOutputMissing)

	file := filepath.Join(t.TempDir(), "file.js")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Collect(file)
	assert.ErrorIs(t, err, ErrOutputMissing)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		files        []Artifact
		wantErrors   []string
		wantWarnings []string
		wantStatus   Status
	}{
		{
			name:         "oversized main bundle",
			files:        artifacts("main.js", 300, "chunk1.js", 40),
			wantErrors:   []string{"Main bundle (main.js) size (300KB) exceeds limit (250KB)"},
			wantWarnings: []string{},
			wantStatus:   StatusFailed,
		},
		{
			name:         "everything within budget",
			files:        artifacts("main.js", 100, "chunk1.js", 60),
			wantErrors:   []string{},
			wantWarnings: []string{},
			wantStatus:   StatusPassed,
		},
		{
			name:         "total approaching limit",
			files:        artifacts("a.js", 120, "b.js", 120, "c.js", 120, "main.js", 120),
			wantErrors:   []string{},
			wantWarnings: []string{"Total bundle size (480KB) is approaching limit (500KB)"},
			wantStatus:   StatusWarning,
		},
		{
			name:         "exactly at warning threshold",
			files:        artifacts("a.js", 150, "b.js", 150, "c.js", 150),
			wantErrors:   []string{},
			wantWarnings: []string{},
			wantStatus:   StatusPassed,
		},
		{
			name:         "exactly at total limit warns",
			files:        artifacts("a.js", 125, "b.js", 125, "c.js", 125, "d.js", 125),
			wantErrors:   []string{},
			wantWarnings: []string{"Total bundle size (500KB) is approaching limit (500KB)"},
			wantStatus:   StatusWarning,
		},
		{
			name:  "total over limit with large chunk",
			files: artifacts("vendor.js", 400, "main.js", 120),
			wantErrors: []string{
				"Total bundle size (520KB) exceeds limit (500KB)",
			},
			wantWarnings: []string{"Chunk (vendor.js) size (400KB) exceeds recommended limit (150KB)"},
			wantStatus:   StatusFailed,
		},
		{
			name:         "main between chunk and main limits only warns",
			files:        artifacts("main.js", 200),
			wantErrors:   []string{},
			wantWarnings: []string{"Chunk (main.js) size (200KB) exceeds recommended limit (150KB)"},
			wantStatus:   StatusWarning,
		},
		{
			name:         "main at limit is not an error",
			files:        artifacts("main.js", 250),
			wantErrors:   []string{},
			wantWarnings: []string{"Chunk (main.js) size (250KB) exceeds recommended limit (150KB)"},
			wantStatus:   StatusWarning,
		},
		{
			name:         "no files",
			files:        nil,
			wantErrors:   []string{},
			wantWarnings: []string{},
			wantStatus:   StatusPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checks := Evaluate(tt.files)
			assert.Equal(t, tt.wantErrors, checks.Errors)
			assert.Equal(t, tt.wantWarnings, checks.Warnings)
			assert.Equal(t, tt.wantStatus, checks.Status())
		})
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Recommendations(artifacts("main.js", 50, "a.js", 20)))

	assert.Equal(t, []string{
		"Consider code splitting for large chunks",
		"Implement dynamic imports for heavy components",
		"Use tree shaking to remove unused code",
	}, Recommendations(artifacts("main.js", 51, "a.js", 70)))

	assert.Equal(t, []string{
		"Consider code splitting for large chunks",
		"Implement dynamic imports for heavy components",
		"Use tree shaking to remove unused code",
		"Consider lazy loading non-critical components",
		"Optimize third-party dependencies",
	}, Recommendations(artifacts("a.js", 160, "b.js", 160)))

	assert.Equal(t, []string{
		"Consider lazy loading non-critical components",
		"Optimize third-party dependencies",
	}, Recommendations(artifacts("a.js", 50, "b.js", 50, "c.js", 50, "d.js", 50, "e.js", 50, "f.js", 50, "g.js", 1)))
}

func TestGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kb   int64
		want string
	}{
		{0, "A+"}, {99, "A+"}, {100, "A"}, {149, "A"}, {150, "B"}, {199, "B"}, {200, "C"}, {900, "C"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.kb), "kb %d", tt.kb)
	}
}

func TestBySizeAndMain(t *testing.T) {
	t.Parallel()

	files := artifacts("b.js", 10, "main.js", 80, "a.js", 10, "main-app.js", 120)

	sorted := BySize(files)
	var names []string
	for _, f := range sorted {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"main-app.js", "main.js", "a.js", "b.js"}, names)
	assert.Equal(t, "b.js", files[0].Name, "input must not be reordered")

	m, ok := Main(files)
	require.True(t, ok)
	assert.Equal(t, "main-app.js", m.Name)

	_, ok = Main(artifacts("a.js", 1))
	assert.False(t, ok)
}

func TestNewReport(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	files := artifacts("main.js", 300, "chunk1.js", 40)
	r := NewReport("run-1", ts, files, Evaluate(files))

	assert.Equal(t, "run-1", r.ID)
	assert.Equal(t, ts.UTC(), r.Timestamp)
	assert.Equal(t, int64(340), r.TotalSize)
	assert.Equal(t, StatusFailed, r.Status)
	assert.False(t, r.Passed())
	assert.Len(t, r.Recommendations, 5)
	assert.Equal(t, files, r.Files)

	empty := NewReport("run-2", ts, nil, Checks{})
	assert.NotNil(t, empty.Files)
	assert.NotNil(t, empty.Checks.Errors)
	assert.NotNil(t, empty.Checks.Warnings)
	assert.NotNil(t, empty.Recommendations)
	assert.True(t, empty.Passed())
}

func TestWriteAndReadReport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "bundle-size-report.json")
	files := artifacts("main.js", 100, "chunk1.js", 60)
	r := NewReport("run-3", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), files, Evaluate(files))

	require.NoError(t, WriteReport(path, r))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"totalSize": 160`)
	assert.Contains(t, string(raw), `"status": "passed"`)
	assert.Contains(t, string(raw), `"errors": []`)

	back, err := ReadReport(path)
	require.NoError(t, err)
	assert.True(t, r.Timestamp.Equal(back.Timestamp))
	back.Timestamp = r.Timestamp
	assert.Equal(t, r, back)

	r2 := NewReport("run-4", r.Timestamp, nil, Checks{})
	require.NoError(t, WriteReport(path, r2))
	back, err = ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, "run-4", back.ID)
}
