package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/auditflow/internal/model"
)

// ruleWidth is the width of section separators in text output.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because the output is often redirected to files; the CLI adds
// color only around the report, never inside it.
type SimpleWriter struct {
	baseWriter

	// verbose adds remediation steps and code snippets to every issue.
	verbose bool

	// upper renders section headings.
	upper cases.Caser
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with remediation details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		upper:      cases.Upper(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeOverview(&sb, report)
	w.writeTechnical(&sb, report)
	w.writeSEO(&sb, report)
	w.writeSecurity(&sb, report)
	w.writeBusiness(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                       WEBSITE AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:        %s\n", report.URL)
	fmt.Fprintf(sb, "Report ID:  %s\n", report.ID)
	fmt.Fprintf(sb, "Scan Date:  %s\n", report.Timestamp.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n")
}

// writeSection writes a section heading.
func (w *SimpleWriter) writeSection(sb *strings.Builder, key string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(w.upper.String(sectionTitle(key)))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeRows writes aligned label/value rows.
func (w *SimpleWriter) writeRows(sb *strings.Builder, rows []row) {
	for _, r := range rows {
		if r.Description != "" {
			fmt.Fprintf(sb, "  %-26s %-14s %s\n", r.Label+":", r.Value, r.Description)
			continue
		}
		fmt.Fprintf(sb, "  %-26s %s\n", r.Label+":", r.Value)
	}
	sb.WriteString("\n")
}

// writeOverview writes the scores and the top issues.
func (w *SimpleWriter) writeOverview(sb *strings.Builder, report *model.AuditReport) {
	w.writeSection(sb, "overview")
	w.writeRows(sb, scoreRows(report))

	top := report.TopIssues(OverviewIssueCount)
	sb.WriteString("  Top Issues:\n")
	if len(top) == 0 {
		sb.WriteString("    No issues detected\n\n")
		return
	}
	for _, issue := range top {
		fmt.Fprintf(sb, "    [%s] %s (%s)\n", issue.Priority, issue.Title, issue.Category)
	}
	sb.WriteString("\n")
}

// writeTechnical writes the metrics, stack and every issue.
func (w *SimpleWriter) writeTechnical(sb *strings.Builder, report *model.AuditReport) {
	w.writeSection(sb, "technical")
	w.writeRows(sb, metricRows(report))

	sb.WriteString("  Technology Stack:\n")
	for _, tech := range report.TechStack {
		fmt.Fprintf(sb, "    [+] %-20s %-10s %-10s %s\n", tech.Name, tech.Version, tech.Category, tech.Status)
	}
	sb.WriteString("\n")

	sb.WriteString("  Recommendations:\n")
	if len(report.Issues) == 0 {
		sb.WriteString("    No issues detected\n\n")
		return
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(sb, "    [%s] %s\n", issue.Priority, issue.Title)
		fmt.Fprintf(sb, "         %s\n", issue.Description)
		fmt.Fprintf(sb, "         Impact: %s  Effort: %s  Saving: %s\n", issue.Impact, issue.Effort, issue.EstimatedSaving)
		if w.verbose {
			for i, step := range issue.RemediationSteps {
				fmt.Fprintf(sb, "         %d. %s\n", i+1, step)
			}
			if issue.CodeSnippet != "" {
				fmt.Fprintf(sb, "         Fix: %s\n", issue.CodeSnippet)
			}
		}
	}
	sb.WriteString("\n")
}

// writeSEO writes the SEO and accessibility checks.
func (w *SimpleWriter) writeSEO(sb *strings.Builder, report *model.AuditReport) {
	w.writeSection(sb, "seo")
	sb.WriteString("  SEO Checks:\n")
	w.writeRows(sb, seoChecks)
	sb.WriteString("  Accessibility:\n")
	w.writeRows(sb, accessibilityChecks)
	w.writeRelatedIssues(sb, sectionIssues(report, "seo"))
}

// writeSecurity writes the cookie audit.
func (w *SimpleWriter) writeSecurity(sb *strings.Builder, report *model.AuditReport) {
	w.writeSection(sb, "security")
	for _, c := range report.Cookies {
		fmt.Fprintf(sb, "  %-20s %-12s %s\n", c.Name, c.Type, c.SecurityLabel())
	}
	sb.WriteString("\n")
	w.writeRelatedIssues(sb, sectionIssues(report, "security"))
}

// writeRelatedIssues lists the issues of a section. Nothing is written when
// the section has none.
func (w *SimpleWriter) writeRelatedIssues(sb *strings.Builder, issues []model.Issue) {
	if len(issues) == 0 {
		return
	}
	sb.WriteString("  " + relatedIssuesHeading + ":\n")
	for _, issue := range issues {
		fmt.Fprintf(sb, "    [%s] %s (%s)\n", issue.Priority, issue.Title, issue.Category)
	}
	sb.WriteString("\n")
}

// writeBusiness writes the business-impact projection.
func (w *SimpleWriter) writeBusiness(sb *strings.Builder, report *model.AuditReport) {
	w.writeSection(sb, "business")
	w.writeRows(sb, businessRows(report))
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by AuditFlow\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
