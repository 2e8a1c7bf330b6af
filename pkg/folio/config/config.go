package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// BuildConfig describes the external build step the audit runs first.
type BuildConfig struct {
	Command   string   `mapstructure:"command"`
	Args      []string `mapstructure:"args"`
	OutputDir string   `mapstructure:"output_dir"`
}

// ReportConfig controls where audit artifacts are written.
type ReportConfig struct {
	Path       string `mapstructure:"path"`
	BudgetPath string `mapstructure:"budget_path"`
	Format     string `mapstructure:"format"`
}

// HistoryConfig controls the local audit history store.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// MetricsConfig controls the Prometheus textfile export. An empty Textfile
// disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Config represents the application configuration.
type Config struct {
	Build   BuildConfig   `mapstructure:"build"`
	Report  ReportConfig  `mapstructure:"report"`
	History HistoryConfig `mapstructure:"history"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Sources lists the config files that were read, in order.
	Sources []string `mapstructure:"-"`
}

// Load loads configuration using the current working directory as the
// project root. See LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads configuration from, in increasing precedence:
//   - built-in defaults
//   - $XDG_CONFIG_HOME/folio/config.yaml or ~/.config/folio/config.yaml
//   - <projectDir>/.folio.yaml
//   - FOLIO_ environment variables (e.g. FOLIO_BUILD_OUTPUT_DIR)
func LoadFrom(projectDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "folio"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "folio"))

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var sources []string
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		sources = append(sources, v.ConfigFileUsed())
	}

	projectFile := filepath.Join(projectDir, ProjectFile)
	if _, err := os.Stat(projectFile); err == nil {
		v.SetConfigFile(projectFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read project config %s: %w", projectFile, err)
		}
		sources = append(sources, projectFile)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Sources = sources

	if cfg.History.Path, err = ExpandPath(cfg.History.Path); err != nil {
		return nil, err
	}
	if cfg.Metrics.Textfile, err = ExpandPath(cfg.Metrics.Textfile); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("build.command", DefaultBuildCommand)
	v.SetDefault("build.args", DefaultBuildArgs)
	v.SetDefault("build.output_dir", DefaultOutputDir)

	v.SetDefault("report.path", DefaultReportPath)
	v.SetDefault("report.budget_path", DefaultBudgetPath)
	v.SetDefault("report.format", DefaultFormat)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"audit":   "info",
		"build":   "info",
		"history": "warn",
		"watch":   "info",
	})
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Command:   DefaultBuildCommand,
			Args:      append([]string(nil), DefaultBuildArgs...),
			OutputDir: DefaultOutputDir,
		},
		Report: ReportConfig{
			Path:       DefaultReportPath,
			BudgetPath: DefaultBudgetPath,
			Format:     DefaultFormat,
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          DefaultHistoryPath(),
			RetentionDays: DefaultRetentionDays,
		},
		Logging: LoggingConfig{
			Level: "info",
			Rotation: RotationConfig{
				MaxSize:    "10MB",
				MaxAge:     30,
				MaxBackups: 5,
				Daily:      true,
			},
		},
	}
}

// ConfigDir returns the user configuration directory.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "folio"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "folio"), nil
}

// ConfigPath returns the path of the user config file, whether or not it exists.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteDefault writes a commented default config file. It reports whether a
// file was created; an existing file is left untouched.
func WriteDefault() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# folio configuration
#
# Size budgets (250KB main, 150KB chunk, 500KB total) are fixed and cannot
# be changed here.

# External build that produces the bundle
build:
  command: %s
  args: [%s]
  output_dir: %s

# Audit artifacts
report:
  path: %s
  budget_path: %s
  # pretty, plain, json or yaml
  format: %s

# Local audit history
history:
  enabled: true
  path: %s
  retention_days: %d

# Prometheus node-exporter textfile (empty disables)
metrics:
  textfile: ""

logging:
  # debug, info, warn, error
  level: info
  # empty means $XDG_STATE_HOME/folio/folio.log
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    audit: info
    build: info
    history: warn
    watch: info
`, DefaultBuildCommand, strings.Join(DefaultBuildArgs, ", "), DefaultOutputDir,
		DefaultReportPath, DefaultBudgetPath, DefaultFormat,
		DefaultHistoryPath(), DefaultRetentionDays)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/folio.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "folio")
}

// StateDir returns $XDG_STATE_HOME/folio.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "folio")
}

// DefaultHistoryPath returns the badger directory for audit history.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}
