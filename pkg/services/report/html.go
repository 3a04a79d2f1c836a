package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Severity style classes are fixed: prior reports are regression-tested
// against them. Keep the names and the taxonomy stable.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 8px; }
h2 { background: #f0f0f0; padding: 6px 10px; margin-top: 28px; }
.meta { color: #666; font-size: 0.9em; }
.check { margin: 12px 0 12px 12px; }
.narrative { margin: 4px 0 0 24px; white-space: pre-wrap; }
.remediation { margin: 4px 0 0 24px; color: #555; font-style: italic; }
.pass { color: #1a7f37; font-weight: bold; }
.fail { color: #c62828; font-weight: bold; }
.warning { color: #e65100; font-weight: bold; }
.info { color: #1565c0; font-weight: bold; }
.manual { color: #616161; font-weight: bold; }
.summary { margin-top: 32px; border-top: 2px solid #444; padding-top: 12px; }
.summary table { border-collapse: collapse; }
.summary td { border: 1px solid #ccc; padding: 4px 12px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}<br>
Scope: {{.ScopeText}}</p>
{{range .Sections}}
<h2 id="{{.ID}}">{{.Title}}</h2>
<p>{{.Description}}</p>
{{range .Checks}}
<div class="check">
<h3><span class="{{.Severity.CSSClass}}">[{{upper (printf "%s" .Severity)}}]</span> {{.Title}}</h3>
<div class="narrative">{{.Narrative}}</div>
{{- if .Remediation}}
<div class="remediation">Remediation: {{.Remediation}}</div>
{{- end}}
</div>
{{end}}
{{end}}
{{- if .Summary}}
<div class="summary">
<h2>Summary</h2>
<table>
<tr><td>Total checks</td><td>{{.Summary.Counters.Total}}</td></tr>
<tr><td>Passed</td><td class="pass">{{.Summary.Counters.Passed}}</td></tr>
<tr><td>Failed</td><td class="fail">{{.Summary.Counters.Failed}}</td></tr>
<tr><td>Warnings</td><td class="warning">{{.Summary.Counters.Warned}}</td></tr>
<tr><td>Success rate</td><td>{{.Summary.SuccessPercent}}%</td></tr>
</table>
</div>
{{- end}}
</body>
</html>
`

// HTMLReporter renders a document as a static HTML page.
type HTMLReporter struct {
	writer io.Writer
}

func NewHTMLReporter(writer io.Writer) *HTMLReporter {
	return &HTMLReporter{writer: writer}
}

func (r *HTMLReporter) Handle(doc *Document) error {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
	}
	t, err := template.New("report").Funcs(funcMap).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, doc)
}
