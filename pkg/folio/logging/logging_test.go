package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/folio/pkg/folio/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{input: "debug", want: logging.LevelDebug},
		{input: "INFO", want: logging.LevelInfo},
		{input: "warn", want: logging.LevelWarn},
		{input: "warning", want: logging.LevelWarn},
		{input: " error ", want: logging.LevelError},
		{input: "verbose", want: logging.LevelInfo, wantErr: true},
		{input: "", want: logging.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, logging.ErrInvalidLevel))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "debug", logging.LevelDebug.String())
	assert.Equal(t, "error", logging.LevelError.String())
	assert.Equal(t, "unknown", logging.Level(42).String())
}

// Init mutates package state; these tests do not run in parallel.
func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(dir string) logging.Config
		wantErr bool
	}{
		{
			name: "defaults",
			cfg: func(dir string) logging.Config {
				return logging.Config{Level: "info", Path: filepath.Join(dir, "folio.log")}
			},
		},
		{
			name: "component overrides",
			cfg: func(dir string) logging.Config {
				return logging.Config{
					Level:      "warn",
					Path:       filepath.Join(dir, "folio.log"),
					Components: map[string]string{"audit": "debug"},
				}
			},
		},
		{
			name: "invalid default level",
			cfg: func(dir string) logging.Config {
				return logging.Config{Level: "loud", Path: filepath.Join(dir, "folio.log")}
			},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: func(dir string) logging.Config {
				return logging.Config{
					Level:      "info",
					Path:       filepath.Join(dir, "folio.log"),
					Components: map[string]string{"build": "chatty"},
				}
			},
			wantErr: true,
		},
		{
			name: "invalid console level",
			cfg: func(dir string) logging.Config {
				return logging.Config{Level: "info", Path: filepath.Join(dir, "folio.log"), ConsoleLevel: "?"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logging.Init(tt.cfg(t.TempDir()))
			t.Cleanup(func() { _ = logging.Close() })

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestComponentLevelsReachFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.log")
	require.NoError(t, logging.Init(logging.Config{
		Level:      "warn",
		Path:       path,
		Components: map[string]string{"audit": "debug"},
	}))

	logging.Get("audit").Debug("audit detail", "files", 3)
	logging.Get("build").Info("build detail")
	logging.Get("build").Error("build broke")

	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "audit detail")
	assert.Contains(t, content, "files=3")
	assert.NotContains(t, content, "build detail")
	assert.Contains(t, content, "build broke")
}

func TestGetBeforeInitIsSilent(t *testing.T) {
	require.NoError(t, logging.Close())

	logger := logging.Get("device")
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Info("nobody hears this")
		logger.With("k", "v").Warn("nor this")
	})
	assert.Same(t, logger, logging.Get("device"))
}

func TestWithAddsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.log")
	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path}))

	logging.Get("history").With("run", "abc123").Info("recorded")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "history")
	assert.Contains(t, line, "run=abc123")
}

func TestRecentInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.log")
	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path, Interactive: true, ConsoleLevel: "debug"}))
	t.Cleanup(func() { _ = logging.Close() })

	logger := logging.Get("watch")
	logger.Debug("filtered out")
	logger.Info("first")
	logger.Warn("second")

	recent := logging.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "first", recent[0].Message)
	assert.Equal(t, "second", recent[1].Message)
	assert.Equal(t, logging.LevelWarn, recent[1].Level)
	assert.Equal(t, "watch", recent[1].Component)
}

func TestRecentWithoutInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.log")
	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path}))
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("watch").Info("kept on disk only")
	assert.Nil(t, logging.Recent(5))
}

func TestDefaultLogPath(t *testing.T) {
	t.Parallel()

	path := logging.DefaultLogPath()
	assert.Equal(t, "folio.log", filepath.Base(path))
	assert.Equal(t, "folio", filepath.Base(filepath.Dir(path)))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, logging.DefaultLogPath(), cfg.Path)
	assert.Equal(t, logging.DefaultMaxSize, cfg.Rotation.MaxSize)
}
