package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yaklabco/stave/pkg/sh"

	"github.com/jamesainslie/folio/pkg/folio/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage folio configuration settings.

Configuration is loaded from, in increasing precedence:
  1. $XDG_CONFIG_HOME/folio/config.yaml or ~/.config/folio/config.yaml
  2. .folio.yaml in the project directory

Environment variables override both using the FOLIO_ prefix:
  FOLIO_BUILD_COMMAND=pnpm
  FOLIO_BUILD_OUTPUT_DIR=dist/assets
  FOLIO_METRICS_TEXTFILE=/var/lib/node_exporter/folio.prom

Size budgets are fixed and cannot be configured.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the user configuration file in your editor ($VISUAL, $EDITOR, or vi).

If the file doesn't exist, a default one is created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// envOverrides lists the environment variables config show reports.
var envOverrides = []string{
	"FOLIO_BUILD_COMMAND",
	"FOLIO_BUILD_ARGS",
	"FOLIO_BUILD_OUTPUT_DIR",
	"FOLIO_REPORT_PATH",
	"FOLIO_REPORT_BUDGET_PATH",
	"FOLIO_REPORT_FORMAT",
	"FOLIO_HISTORY_ENABLED",
	"FOLIO_HISTORY_PATH",
	"FOLIO_HISTORY_RETENTION_DAYS",
	"FOLIO_METRICS_TEXTFILE",
	"FOLIO_LOGGING_LEVEL",
	"FOLIO_LOGGING_PATH",
}

// formatConfig renders the effective configuration.
func formatConfig(c *config.Config) string {
	var sb strings.Builder

	if len(c.Sources) > 0 {
		fmt.Fprintf(&sb, "Config files: %s\n\n", strings.Join(c.Sources, ", "))
	} else {
		sb.WriteString("Config files: (using defaults, no file found)\n\n")
	}

	sb.WriteString("Current Configuration:\n")
	sb.WriteString("----------------------\n")
	fmt.Fprintf(&sb, "build.command:          %s\n", c.Build.Command)
	fmt.Fprintf(&sb, "build.args:             %v\n", c.Build.Args)
	fmt.Fprintf(&sb, "build.output_dir:       %s\n", c.Build.OutputDir)
	fmt.Fprintf(&sb, "report.path:            %s\n", c.Report.Path)
	fmt.Fprintf(&sb, "report.budget_path:     %s\n", c.Report.BudgetPath)
	fmt.Fprintf(&sb, "report.format:          %s\n", c.Report.Format)
	fmt.Fprintf(&sb, "history.enabled:        %t\n", c.History.Enabled)
	fmt.Fprintf(&sb, "history.path:           %s\n", c.History.Path)
	fmt.Fprintf(&sb, "history.retention:      %d days\n", c.History.RetentionDays)
	metricsPath := c.Metrics.Textfile
	if metricsPath == "" {
		metricsPath = "(disabled)"
	}
	fmt.Fprintf(&sb, "metrics.textfile:       %s\n", metricsPath)
	fmt.Fprintf(&sb, "logging.level:          %s\n", c.Logging.Level)
	fmt.Fprintf(&sb, "logging.rotation:       %s, %d backups, %d days\n",
		c.Logging.Rotation.MaxSize, c.Logging.Rotation.MaxBackups, c.Logging.Rotation.MaxAge)

	return sb.String()
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Print(formatConfig(loadedConfig()))

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	anyOverrides := false
	for _, name := range envOverrides {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}
	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	if _, err := sh.Exec(nil, os.Stdin, os.Stdout, os.Stderr, editor, configPath); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !created {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'folio config edit' to modify it.")
		return nil
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
