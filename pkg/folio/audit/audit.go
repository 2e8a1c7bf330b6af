// Package audit runs one bundle size audit: build the site, measure the
// emitted chunks, judge them against the fixed budgets and persist the
// result.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/folio/pkg/folio/budget"
	"github.com/jamesainslie/folio/pkg/folio/build"
	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/logging"
)

// Recorder receives every persisted report. History and metrics exporters
// implement it.
type Recorder interface {
	Record(r *bundle.Report) error
}

// Auditor holds the inputs of an audit.
type Auditor struct {
	Runner     build.Runner
	OutputDir  string
	ReportPath string

	// BudgetPath is where the budget descriptor is written. Empty skips it.
	BudgetPath string

	Recorders []Recorder

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

// Outcome is a completed audit.
type Outcome struct {
	Report     *bundle.Report
	ReportPath string
	BudgetPath string
	Build      build.Result
}

// Run performs one audit. A build failure or a missing output directory
// returns an error before anything is written. Recorder failures are
// logged and do not fail the audit.
func (a *Auditor) Run(ctx context.Context) (*Outcome, error) {
	log := logging.Get("audit")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := a.Runner.Run()
	if err != nil {
		return nil, err
	}

	artifacts, err := bundle.Collect(a.OutputDir)
	if err != nil {
		log.Error("collecting chunks", "dir", a.OutputDir, "error", err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	checks := bundle.Evaluate(artifacts)
	report := bundle.NewReport(a.newID(), a.now(), artifacts, checks)
	log.Info("evaluated chunks",
		"files", len(report.Files),
		"total_kb", report.TotalSize,
		"status", report.Status,
		"errors", len(checks.Errors),
		"warnings", len(checks.Warnings))

	if err := bundle.WriteReport(a.ReportPath, report); err != nil {
		return nil, err
	}

	out := &Outcome{Report: report, ReportPath: a.ReportPath, Build: res}

	if a.BudgetPath != "" {
		if err := budget.Write(a.BudgetPath); err != nil {
			return nil, err
		}
		out.BudgetPath = a.BudgetPath
	}

	for _, rec := range a.Recorders {
		if err := rec.Record(report); err != nil {
			log.Warn("recorder failed", "recorder", fmt.Sprintf("%T", rec), "error", err)
		}
	}

	return out, nil
}

func (a *Auditor) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

func (a *Auditor) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
