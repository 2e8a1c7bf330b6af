package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/config"
	"github.com/jamesainslie/folio/pkg/folio/logging"
	"github.com/jamesainslie/folio/pkg/folio/types"
)

// initializeLogging is the root PersistentPreRunE hook. It makes sure the
// XDG directories exist, loads configuration and starts file logging.
// Failures here never prevent a command from running.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	ensureDirectories()

	loaded, err := config.LoadFrom(projectDir)
	if err != nil {
		printError("Failed to load configuration: %v", err)
		loaded = config.Default()
	}
	cfg = loaded

	logCfg := logging.Config{
		Level:       loaded.Logging.Level,
		Path:        loaded.Logging.Path,
		Rotation:    parseRotationConfig(loaded.Logging.Rotation),
		Components:  loaded.Logging.Components,
		Interactive: isInteractive(cmd),
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return nil
	}

	logging.Get("cli").Debug("configuration loaded", "sources", loaded.Sources)
	return nil
}

// isInteractive reports whether cmd takes over the terminal.
func isInteractive(cmd *cobra.Command) bool {
	return cmd != nil && cmd == previewCmd
}

// ensureDirectories creates the folio config, data and state directories.
func ensureDirectories() {
	if dir, err := config.ConfigDir(); err == nil {
		_ = os.MkdirAll(dir, 0o755)
	}
	_ = os.MkdirAll(config.DataDir(), 0o755)
	_ = os.MkdirAll(config.StateDir(), 0o755)
}

// parseRotationConfig converts the config file form to the logging form.
// An empty or invalid max_size falls back to logging.DefaultMaxSize.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize := int64(logging.DefaultMaxSize)
	if rc.MaxSize != "" {
		if parsed, err := types.ParseSize(rc.MaxSize); err == nil {
			maxSize = parsed
		}
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
}
