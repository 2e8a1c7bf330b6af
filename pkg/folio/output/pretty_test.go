package output

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
)

func TestPrettyFormatter_Format_Failed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{MaxFiles: DefaultLargestFiles}).Format(&buf, failingResult()))

	out := buf.String()
	assert.Contains(t, out, "Bundle Size Analysis")
	assert.Contains(t, out, "340KB")
	assert.Contains(t, out, "500KB")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Errors")
	assert.Contains(t, out, "Main bundle (main.js) size (300KB) exceeds limit (250KB)")
	assert.Contains(t, out, "Largest Files")
	assert.Contains(t, out, "🔴")
	assert.Contains(t, out, "🟢")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "Grade:")
	assert.Contains(t, out, "reports/bundle-size-report.json")
	assert.Contains(t, out, "Bundle size check failed")
	assert.Contains(t, out, "1.5s")
}

func TestPrettyFormatter_Format_Passed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := testResult(bundle.Artifact{Name: "main.js", Size: 100}, bundle.Artifact{Name: "chunk1.js", Size: 60})
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "PASSED")
	assert.Contains(t, out, "🟡")
	assert.Contains(t, out, "Bundle size check passed")
	assert.NotContains(t, out, "Errors")
	assert.NotContains(t, out, "Warnings")
}

func TestPrettyFormatter_Format_Truncates(t *testing.T) {
	t.Parallel()

	var files []bundle.Artifact
	for i := range 8 {
		files = append(files, bundle.Artifact{Name: fmt.Sprintf("chunk%d.js", i), Size: int64(10 + i)})
	}

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{MaxFiles: 5}).Format(&buf, testResult(files...)))

	out := buf.String()
	assert.Contains(t, out, "chunk7.js")
	assert.NotContains(t, out, "chunk0.js")
	assert.Contains(t, out, "... and 3 more")
}

func TestPrettyFormatter_Format_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, testResult()))
	assert.Contains(t, buf.String(), "No JavaScript chunks found")

	assert.Error(t, (&PrettyFormatter{}).Format(&buf, &Result{}))
}

func TestPrettyFormatter_FormatDevice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).FormatDevice(&buf, testDeviceView()))

	out := buf.String()
	assert.Contains(t, out, "Device Profile")
	assert.Contains(t, out, "mobile")
	assert.Contains(t, out, "390x844")
	assert.Contains(t, out, "Particles:")
	assert.Contains(t, out, "300ms")
	assert.Contains(t, out, "q=30")
}

func TestMarker(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🟢", marker(50))
	assert.Equal(t, "🟡", marker(51))
	assert.Equal(t, "🟡", marker(100))
	assert.Equal(t, "🔴", marker(101))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"500us", "500µs"},
		{"250ms", "250ms"},
		{"1500ms", "1.5s"},
		{"125s", "2m5s"},
	}
	for _, tt := range tests {
		d, err := time.ParseDuration(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, formatDuration(d))
	}
}
