// Package config provides configuration management for folio.
package config

// Default configuration values for folio.
const (
	// DefaultBuildCommand is the executable that produces the site bundle.
	DefaultBuildCommand = "npm"

	// DefaultOutputDir is where the bundler leaves its JavaScript chunks.
	DefaultOutputDir = ".next/static/chunks"

	// DefaultReportPath is where the audit report is written.
	DefaultReportPath = "reports/bundle-size-report.json"

	// DefaultBudgetPath is where the performance budget descriptor is written.
	DefaultBudgetPath = "budget.json"

	// DefaultRetentionDays is how long audit history is kept.
	DefaultRetentionDays = 90

	// DefaultFormat is the output renderer used by the audit command.
	DefaultFormat = "pretty"

	// ProjectFile is the optional per-project override file, read from the
	// working directory after the user config.
	ProjectFile = ".folio.yaml"
)

// DefaultBuildArgs are passed to DefaultBuildCommand.
var DefaultBuildArgs = []string{"run", "build"}
