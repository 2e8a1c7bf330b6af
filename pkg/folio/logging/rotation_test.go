package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/folio/pkg/folio/logging"
)

func countLogs(t *testing.T, dir, prefix string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".log") {
			n++
		}
	}
	return n
}

func TestRotatingWriterRotatesBySize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "size.log")

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxSize: 256})
	require.NoError(t, err)

	line := []byte(strings.Repeat("x", 100) + "\n")
	for i := 0; i < 5; i++ {
		_, err := w.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	assert.GreaterOrEqual(t, countLogs(t, dir, "size"), 2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(256))
}

func TestRotatingWriterPrunesBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "prune.log")

	old := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		name := filepath.Join(dir, "prune."+old.Add(time.Duration(i)*time.Minute).Format("2006-01-02-150405")+".log")
		require.NoError(t, os.WriteFile(name, []byte("old\n"), 0o644))
		stamp := old.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(name, stamp, stamp))
	}

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxBackups: 2})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// active file plus two surviving backups
	assert.Equal(t, 3, countLogs(t, dir, "prune"))
}

func TestRotatingWriterPrunesByAge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "age.log")

	stale := filepath.Join(dir, "age.2020-01-01-000000.log")
	require.NoError(t, os.WriteFile(stale, []byte("stale\n"), 0o644))
	then := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(stale, then, then))

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxAge: 7})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestRotatingWriterCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "nested.log")
	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{})
	require.NoError(t, err)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRotatingWriterWriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := logging.NewRotatingWriter(filepath.Join(t.TempDir(), "closed.log"), logging.RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
