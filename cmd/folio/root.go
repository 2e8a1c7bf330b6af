package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/folio/pkg/folio/config"
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("reported")

var (
	projectDir string
	cfg        *config.Config

	rootCmd = &cobra.Command{
		Use:   "folio",
		Short: "Portfolio site tooling: bundle size audits and device profiles",
		Long: `Folio audits the site's production bundle against fixed size budgets and
previews the performance configuration the site derives for each device.

With no subcommand, folio builds the site, measures the emitted JavaScript
chunks, and writes reports/bundle-size-report.json and budget.json.
It exits non-zero when the audit fails or the build cannot complete.

Examples:
  folio                          # Build and audit the bundle
  folio -o json                  # Audit with JSON output
  folio device --width 390       # Show the profile for a phone viewport
  folio device preview           # Interactive device preview
  folio image https://images.pexels.com/photos/1/a.jpeg --width 390
  folio history                  # Recent audit runs`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: initializeLogging,
		RunE:              runAudit,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "project directory (where .folio.yaml and the build live)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: pretty, plain, json, jsonl, yaml, template")
	rootCmd.PersistentFlags().StringVar(&templateStr, "template", "", "Go template for -o template")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.Flags().Bool("echo-build", false, "stream build output while it runs")
	_ = viper.BindPFlag("echo_build", rootCmd.Flags().Lookup("echo-build"))
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// loadedConfig returns the configuration loaded by the pre-run hook,
// falling back to defaults when it has not run.
func loadedConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}
