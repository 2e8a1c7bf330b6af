package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/folio/pkg/folio/audit"
	"github.com/jamesainslie/folio/pkg/folio/build"
	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/config"
	"github.com/jamesainslie/folio/pkg/folio/history"
	"github.com/jamesainslie/folio/pkg/folio/logging"
	"github.com/jamesainslie/folio/pkg/folio/metrics"
	"github.com/jamesainslie/folio/pkg/folio/output"
)

// runAudit builds the site and audits the emitted bundle. It is the root
// command's action.
func runAudit(cmd *cobra.Command, _ []string) error {
	c := loadedConfig()
	log := logging.Get("cli")

	formatter, err := resolveFormatter(c)
	if err != nil {
		return err
	}
	pretty := isPretty(formatter)

	if projectDir != "" && projectDir != "." {
		if err := os.Chdir(projectDir); err != nil {
			return fmt.Errorf("entering project directory: %w", err)
		}
	}

	runner := build.NewShellRunner(c.Build.Command, c.Build.Args...)
	echo := viper.GetBool("echo_build")
	if echo {
		runner.Echo = os.Stderr
	}

	recorders, closeRecorders := openRecorders(c)
	defer closeRecorders()

	a := &audit.Auditor{
		Runner:     runner,
		OutputDir:  c.Build.OutputDir,
		ReportPath: c.Report.Path,
		BudgetPath: c.Report.BudgetPath,
		Recorders:  recorders,
	}

	if pretty && !getQuiet() {
		fmt.Fprintln(os.Stderr, output.MutedStyle.Render("Building: "+runner.CommandLine()))
	}

	outcome, err := a.Run(cmd.Context())
	if err != nil {
		return reportAuditError(os.Stderr, err, echo, pretty)
	}

	res := &output.Result{
		Report:        outcome.Report,
		ReportPath:    outcome.ReportPath,
		BudgetPath:    outcome.BudgetPath,
		BuildDuration: outcome.Build.Duration,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, res); err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	if !getQuiet() || !outcome.Report.Passed() {
		fmt.Print(buf.String())
	}

	log.Info("audit complete", "id", outcome.Report.ID, "status", outcome.Report.Status)
	if !outcome.Report.Passed() {
		return errReported
	}
	return nil
}

// openRecorders opens the configured history store and metrics exporter.
// A recorder that cannot be opened is skipped with a warning.
func openRecorders(c *config.Config) ([]audit.Recorder, func()) {
	log := logging.Get("cli")
	var recorders []audit.Recorder
	closers := []func(){}

	if c.History.Enabled && c.History.Path != "" {
		store, err := history.Open(c.History.Path)
		if err != nil {
			log.Warn("history disabled", "path", c.History.Path, "error", err)
			printVerbose("history disabled: %v", err)
		} else {
			recorders = append(recorders, store)
			retention := time.Duration(c.History.RetentionDays) * 24 * time.Hour
			closers = append(closers, func() {
				if _, err := store.Cleanup(retention); err != nil {
					log.Warn("history cleanup failed", "error", err)
				}
				_ = store.Close()
			})
		}
	}

	if c.Metrics.Textfile != "" {
		recorders = append(recorders, metrics.NewTextfileExporter(c.Metrics.Textfile))
	}

	return recorders, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}

// reportAuditError prints a failed audit. Build failures show the build's
// own output unless it was already streamed.
func reportAuditError(w io.Writer, err error, echoed, pretty bool) error {
	var be *build.Error
	switch {
	case errors.As(err, &be):
		if !echoed && len(be.Output) > 0 {
			_, _ = w.Write(be.Output)
			if be.Output[len(be.Output)-1] != '\n' {
				fmt.Fprintln(w)
			}
		}
		printFailure(w, pretty, "Build failed", be.Error())
		return errReported

	case errors.Is(err, bundle.ErrOutputMissing):
		printFailure(w, pretty, "Build output not found", err.Error())
		return errReported

	default:
		return err
	}
}

func printFailure(w io.Writer, pretty bool, title, detail string) {
	if !pretty {
		fmt.Fprintf(w, "Error: %s\n", detail)
		return
	}
	fmt.Fprintln(w, output.ErrorBox.Render(
		output.ErrorStyle.Bold(true).Render(title)+"\n"+output.ValueStyle.Render(detail)))
}
