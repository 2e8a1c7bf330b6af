// Package budget produces the Lighthouse-style performance budget
// descriptor written beside every audit report.
package budget

import (
	"fmt"

	"github.com/jamesainslie/folio/pkg/folio/fileutil"
)

// Timing is a budget for a page timing metric, in milliseconds.
type Timing struct {
	Metric string `json:"metric" yaml:"metric"`
	Budget int    `json:"budget" yaml:"budget"`
}

// ResourceSize is a budget for a resource type, in KB.
type ResourceSize struct {
	ResourceType string `json:"resourceType" yaml:"resourceType"`
	Budget       int    `json:"budget" yaml:"budget"`
}

// Budget applies to the pages matching Path.
type Budget struct {
	Path          string         `json:"path" yaml:"path"`
	Timings       []Timing       `json:"timings" yaml:"timings"`
	ResourceSizes []ResourceSize `json:"resourceSizes" yaml:"resourceSizes"`
}

// Descriptor is the document written to budget.json.
type Descriptor struct {
	Budgets []Budget `json:"budgets" yaml:"budgets"`
}

// Default returns the fixed site budget.
func Default() Descriptor {
	return Descriptor{
		Budgets: []Budget{{
			Path: "/**",
			Timings: []Timing{
				{Metric: "interactive", Budget: 3000},
				{Metric: "first-contentful-paint", Budget: 1500},
			},
			ResourceSizes: []ResourceSize{
				{ResourceType: "script", Budget: 500},
				{ResourceType: "total", Budget: 1000},
			},
		}},
	}
}

// Write writes the default descriptor to path as indented JSON.
func Write(path string) error {
	if err := fileutil.WriteJSON(path, Default()); err != nil {
		return fmt.Errorf("writing budget: %w", err)
	}
	return nil
}
