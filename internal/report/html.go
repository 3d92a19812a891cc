package report

import (
	"html/template"
	"io"

	"github.com/nao1215/auditflow/internal/model"
)

// htmlTemplate is the standalone page layout. Styles are inlined so the
// file renders the same when opened offline.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:-apple-system,Segoe UI,Helvetica,Arial,sans-serif;margin:2rem auto;max-width:960px;color:#0f172a}
h1{margin-bottom:.25rem}
.meta{color:#64748b;margin-bottom:2rem}
table{border-collapse:collapse;width:100%;margin-bottom:1.5rem}
th,td{border:1px solid #e2e8f0;padding:.5rem;text-align:left;vertical-align:top}
th{background:#f1f5f9}
.good{color:#059669;font-weight:600}
.needs-work{color:#d97706;font-weight:600}
.insecure{color:#dc2626;font-weight:600}
pre{background:#0f172a;color:#e2e8f0;padding:.75rem;border-radius:6px;overflow-x:auto}
@media print{body{margin:0}}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{.Report.URL}} &middot; {{.Report.Timestamp.Format "2006-01-02 15:04:05 MST"}} &middot; {{.Report.ID}}</p>

<h2>{{index .Titles "overview"}}</h2>
<table>
<tr><th>Category</th><th>Score</th><th>Rating</th></tr>
{{range .Scores}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td class="{{ratingClass .Description}}">{{.Description}}</td></tr>
{{end}}</table>
{{if .TopIssues}}<h3>Top Issues</h3>
<ul>
{{range .TopIssues}}<li><strong>{{.Priority}}</strong> {{.Title}} ({{.Category}})</li>
{{end}}</ul>{{end}}

<h2>{{index .Titles "technical"}}</h2>
<table>
<tr><th>Metric</th><th>Value</th><th>Description</th></tr>
{{range .Metrics}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td>{{.Description}}</td></tr>
{{end}}</table>
<h3>Technology Stack</h3>
<table>
<tr><th>Technology</th><th>Version</th><th>Category</th><th>Status</th></tr>
{{range .Report.TechStack}}<tr><td>{{.Name}}</td><td>{{.Version}}</td><td>{{.Category}}</td><td>{{.Status}}</td></tr>
{{end}}</table>
<h3>Recommendations</h3>
{{range .Report.Issues}}<section>
<h4>{{.Priority}} &middot; {{.Title}}</h4>
<p>{{.Description}}</p>
<p>Impact: {{.Impact}} &middot; Effort: {{.Effort}} &middot; Saving: {{.EstimatedSaving}}</p>
<ol>{{range .RemediationSteps}}<li>{{.}}</li>{{end}}</ol>
{{if .CodeSnippet}}<pre><code>{{.CodeSnippet}}</code></pre>{{end}}
</section>
{{else}}<p>No issues detected.</p>
{{end}}

<h2>{{index .Titles "seo"}}</h2>
<table>
<tr><th>Check</th><th>Status</th><th>Details</th></tr>
{{range .SEOChecks}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td>{{.Description}}</td></tr>
{{end}}{{range .AccessibilityChecks}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td></td></tr>
{{end}}</table>
{{template "related" .SEOIssues}}

<h2>{{index .Titles "security"}}</h2>
<table>
<tr><th>Cookie</th><th>Type</th><th>Status</th></tr>
{{range .Report.Cookies}}<tr><td><code>{{.Name}}</code></td><td>{{.Type}}</td><td{{if not .Secure}} class="insecure"{{end}}>{{.SecurityLabel}}</td></tr>
{{end}}</table>
{{template "related" .SecurityIssues}}

<h2>{{index .Titles "business"}}</h2>
<table>
<tr><th>Indicator</th><th>Value</th><th>Description</th></tr>
{{range .Business}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td>{{.Description}}</td></tr>
{{end}}</table>

<footer><small>Report generated by AuditFlow</small></footer>
</body>
</html>
{{define "related"}}{{if .}}<h3>Related Issues</h3>
<ul>
{{range .}}<li><strong>{{.Priority}}</strong> {{.Title}} ({{.Category}})</li>
{{end}}</ul>{{end}}{{end}}`

// htmlPage parses htmlTemplate once.
var htmlPage = template.Must(template.New("report").Funcs(template.FuncMap{
	"ratingClass": func(rating string) string {
		if rating == model.RatingGood {
			return "good"
		}
		return "needs-work"
	},
}).Parse(htmlTemplate))

// htmlData is the template input.
type htmlData struct {
	Title               string
	Titles              map[string]string
	Report              *model.AuditReport
	Scores              []row
	TopIssues           []model.Issue
	Metrics             []row
	SEOChecks           []row
	AccessibilityChecks []row
	SEOIssues           []model.Issue
	SecurityIssues      []model.Issue
	Business            []row
}

// HTMLWriter outputs a report as a standalone HTML page.
// All report values are escaped by html/template.
type HTMLWriter struct {
	baseWriter

	// title is the page title.
	title string
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithTitle sets the page title.
func WithTitle(title string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.title = title
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		title:      "Website Audit Report",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as HTML.
func (w *HTMLWriter) Write(report *model.AuditReport) (int, error) {
	titles := make(map[string]string, len(Sections))
	for _, s := range Sections {
		titles[s.Key] = s.Title
	}

	data := htmlData{
		Title:               w.title,
		Titles:              titles,
		Report:              report,
		Scores:              scoreRows(report),
		TopIssues:           report.TopIssues(OverviewIssueCount),
		Metrics:             metricRows(report),
		SEOChecks:           seoChecks,
		AccessibilityChecks: accessibilityChecks,
		SEOIssues:           sectionIssues(report, "seo"),
		SecurityIssues:      sectionIssues(report, "security"),
		Business:            businessRows(report),
	}

	cw := &countingWriter{w: w.output}
	err := htmlPage.Execute(cw, data)
	return cw.n, err
}
