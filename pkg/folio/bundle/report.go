package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jamesainslie/folio/pkg/folio/fileutil"
)

// Report is the persisted result of one audit. It is written once and not
// modified afterwards.
type Report struct {
	ID              string     `json:"id" yaml:"id"`
	Timestamp       time.Time  `json:"timestamp" yaml:"timestamp"`
	Files           []Artifact `json:"files" yaml:"files"`
	TotalSize       int64      `json:"totalSize" yaml:"totalSize"`
	Checks          Checks     `json:"checks" yaml:"checks"`
	Status          Status     `json:"status" yaml:"status"`
	Recommendations []string   `json:"recommendations" yaml:"recommendations"`
}

// NewReport assembles a report. Files keep the order they were collected in.
func NewReport(id string, ts time.Time, artifacts []Artifact, checks Checks) *Report {
	files := append([]Artifact{}, artifacts...)
	if checks.Errors == nil {
		checks.Errors = []string{}
	}
	if checks.Warnings == nil {
		checks.Warnings = []string{}
	}

	return &Report{
		ID:              id,
		Timestamp:       ts.UTC(),
		Files:           files,
		TotalSize:       TotalKB(files),
		Checks:          checks,
		Status:          checks.Status(),
		Recommendations: Recommendations(files),
	}
}

// Passed reports whether the audit should succeed. Warnings pass.
func (r *Report) Passed() bool {
	return r.Status != StatusFailed
}

// WriteReport writes r as indented JSON to path, replacing any earlier
// report.
func WriteReport(path string, r *Report) error {
	if err := fileutil.WriteJSON(path, r); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
