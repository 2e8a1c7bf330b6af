package bundle

import (
	"fmt"
)

// Status is the outcome of an audit.
type Status string

// Audit outcomes.
const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Checks holds the budget violations of one audit.
type Checks struct {
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Status is failed with any error, warning with any warning, else passed.
func (c Checks) Status() Status {
	switch {
	case len(c.Errors) > 0:
		return StatusFailed
	case len(c.Warnings) > 0:
		return StatusWarning
	default:
		return StatusPassed
	}
}

// WarningThresholdKB is the total above which a warning is raised.
func WarningThresholdKB() float64 {
	return float64(TotalLimitKB) * WarningRatio
}

// Evaluate applies the size budgets. Total size is checked first, then
// each file in the given order. A "main" file over its limit is an error;
// any file over the chunk limit that is not already an error is a warning.
func Evaluate(artifacts []Artifact) Checks {
	checks := Checks{Errors: []string{}, Warnings: []string{}}

	total := TotalKB(artifacts)
	switch {
	case total > TotalLimitKB:
		checks.Errors = append(checks.Errors,
			fmt.Sprintf("Total bundle size (%dKB) exceeds limit (%dKB)", total, TotalLimitKB))
	case float64(total) > WarningThresholdKB():
		checks.Warnings = append(checks.Warnings,
			fmt.Sprintf("Total bundle size (%dKB) is approaching limit (%dKB)", total, TotalLimitKB))
	}

	for _, a := range artifacts {
		switch {
		case a.IsMain() && a.Size > MainLimitKB:
			checks.Errors = append(checks.Errors,
				fmt.Sprintf("Main bundle (%s) size (%dKB) exceeds limit (%dKB)", a.Name, a.Size, MainLimitKB))
		case a.Size > ChunkLimitKB:
			checks.Warnings = append(checks.Warnings,
				fmt.Sprintf("Chunk (%s) size (%dKB) exceeds recommended limit (%dKB)", a.Name, a.Size, ChunkLimitKB))
		}
	}

	return checks
}

// Recommendations returns generic optimization advice triggered by large
// files or a large total.
func Recommendations(artifacts []Artifact) []string {
	recs := []string{}

	for _, a := range artifacts {
		if a.Size > LargeFileKB {
			recs = append(recs,
				"Consider code splitting for large chunks",
				"Implement dynamic imports for heavy components",
				"Use tree shaking to remove unused code",
			)
			break
		}
	}

	if TotalKB(artifacts) > LargeTotalKB {
		recs = append(recs,
			"Consider lazy loading non-critical components",
			"Optimize third-party dependencies",
		)
	}

	return recs
}

// Grade rates the entry bundle size: A+ under 100KB, A under 150KB, B under
// 200KB, otherwise C.
func Grade(mainKB int64) string {
	switch {
	case mainKB < 100:
		return "A+"
	case mainKB < 150:
		return "A"
	case mainKB < 200:
		return "B"
	default:
		return "C"
	}
}
