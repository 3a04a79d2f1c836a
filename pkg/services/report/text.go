package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
)

// TextReporter renders a document as formatted plain text.
type TextReporter struct {
	writer io.Writer
}

func NewTextReporter(writer io.Writer) *TextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TextReporter{writer: writer}
}

func (r *TextReporter) Handle(doc *Document) error {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
	}

	tmpl := `
{{.Title}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}
Scope: {{.ScopeText}}

{{range .Sections}}
=== {{.Title}} ===
{{.Description}}
{{range .Checks}}
[{{upper (printf "%s" .Severity)}}] {{.Title}}
  {{.Narrative}}
{{- if .Remediation}}
  Remediation: {{.Remediation}}
{{- end}}
{{end}}
{{end}}
{{- if .Summary}}
=== Summary ===
Total checks: {{.Summary.Counters.Total}}
Passed: {{.Summary.Counters.Passed}}
Failed: {{.Summary.Counters.Failed}}
Warnings: {{.Summary.Counters.Warned}}
Success rate: {{.Summary.SuccessPercent}}%
{{- end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, doc)
}
