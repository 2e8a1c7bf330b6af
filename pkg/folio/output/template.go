package output

import (
	"bytes"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/folio/pkg/folio/bundle"
	"github.com/jamesainslie/folio/pkg/folio/types"
)

// TemplateFormatter formats output using a custom Go text/template.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// templateData is the data passed to the template. Files are sorted
// largest first.
type templateData struct {
	*bundle.Report
	Files      []bundle.Artifact
	ReportPath string
	BudgetPath string
	Grade      string
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// Usage: {{date .Timestamp "2006-01-02"}}
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},

		// Usage: {{kb .Size}}
		"kb": types.FormatKB,

		// Usage: {{bytes (mul .Size 1024)}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},

		"mul": func(a, b int64) int64 { return a * b },
	}
}

func (f *TemplateFormatter) compiled() (*template.Template, error) {
	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return nil, err
		}
		f.template = tmpl
	}
	return f.template, nil
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmpl, err := f.compiled()
	if err != nil {
		return err
	}

	data := templateData{
		Report:     r.Report,
		Files:      r.Files(),
		ReportPath: r.ReportPath,
		BudgetPath: r.BudgetPath,
	}
	if _, grade, ok := r.MainGrade(); ok {
		data.Grade = grade
	}
	return tmpl.Execute(w, data)
}

// FormatDevice executes the template against the device view.
func (f *TemplateFormatter) FormatDevice(w *bytes.Buffer, v *DeviceView) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmpl, err := f.compiled()
	if err != nil {
		return err
	}
	return tmpl.Execute(w, v)
}

// defaultTemplate is the template used when no custom template is provided.
const defaultTemplate = `{{range .Files}}{{kb .Size}}	{{.Name}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
