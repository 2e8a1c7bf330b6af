package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
)

// document is the structured form shared by the json and yaml formatters.
type document struct {
	Report *bundle.Report `json:"report" yaml:"report"`
	Meta   documentMeta   `json:"meta" yaml:"meta"`
}

type documentMeta struct {
	ReportPath    string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	BudgetPath    string `json:"budget_path,omitempty" yaml:"budget_path,omitempty"`
	BuildDuration string `json:"build_duration,omitempty" yaml:"build_duration,omitempty"`
	Grade         string `json:"grade,omitempty" yaml:"grade,omitempty"`
}

func buildDocument(r *Result) document {
	doc := document{
		Report: r.Report,
		Meta: documentMeta{
			ReportPath: r.ReportPath,
			BudgetPath: r.BudgetPath,
		},
	}
	if r.BuildDuration > 0 {
		doc.Meta.BuildDuration = r.BuildDuration.String()
	}
	if _, grade, ok := r.MainGrade(); ok {
		doc.Meta.Grade = grade
	}
	return doc
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	return f.encode(w, buildDocument(r))
}

// FormatDevice writes the device view as JSON.
func (f *JSONFormatter) FormatDevice(w *bytes.Buffer, v *DeviceView) error {
	return f.encode(w, v)
}

func (f *JSONFormatter) encode(w *bytes.Buffer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter writes one compact JSON object per file, largest first.
// It suits streaming into tools like jq.
type JSONLFormatter struct{}

type jsonlFile struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Path   string `json:"path"`
	Main   bool   `json:"main"`
	Report string `json:"report_id"`
}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.Report == nil {
		return nil
	}
	for _, file := range r.Files() {
		data, err := json.Marshal(jsonlFile{
			Name:   file.Name,
			Size:   file.Size,
			Path:   file.Path,
			Main:   file.IsMain(),
			Report: r.Report.ID,
		})
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

// FormatDevice writes the device view on a single line.
func (f *JSONLFormatter) FormatDevice(w *bytes.Buffer, v *DeviceView) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Write(data)
	w.WriteByte('\n')
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
