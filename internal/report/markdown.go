package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/auditflow/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides tables, GitHub-flavored alerts and mermaid
// charts without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOverview(md, report)
	w.writeTechnical(md, report)
	w.writeSEO(md, report)
	w.writeSecurity(md, report)
	w.writeBusiness(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("Website Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Report ID", "`" + report.ID + "`"},
			{"Scan Date", report.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Overall Score", strconv.Itoa(report.Scores.Overall) + " / 100"},
		},
	})
	md.PlainText("")
}

// writeOverview writes the score cards, an alert and the top issues.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, report *model.AuditReport) {
	md.H2(sectionTitle("overview"))
	md.PlainText("")

	md.Table(rowsTable([]string{"Category", "Score", "Rating"}, scoreRows(report)))
	md.PlainText("")

	w.writeAlert(md, report)

	top := report.TopIssues(OverviewIssueCount)
	if len(top) == 0 {
		md.PlainText("No issues detected.")
		md.PlainText("")
		return
	}

	items := make([]string, 0, len(top))
	for _, issue := range top {
		items = append(items, "**"+issue.Priority.String()+"** "+issue.Title+" ("+issue.Category+")")
	}
	md.H3("Top Issues")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

// writeAlert writes an alert based on the overall score and critical issues.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AuditReport) {
	critical := 0
	for _, issue := range report.Issues {
		if issue.Priority.Rank() == 0 {
			critical++
		}
	}

	switch {
	case critical > 0:
		md.Cautionf("%d critical issue(s) should be fixed first.", critical)
	case report.Scores.Overall <= model.GoodScoreThreshold:
		md.Warningf("Overall score %d needs work.", report.Scores.Overall)
	case len(report.Issues) > 0:
		md.Note("Site is in good shape; a few improvements remain.")
	default:
		md.Tip("No issues detected.")
	}
	md.PlainText("")
}

// writeTechnical writes metrics, the stack and the recommendations.
func (w *MarkdownWriter) writeTechnical(md *markdown.Markdown, report *model.AuditReport) {
	md.H2(sectionTitle("technical"))
	md.PlainText("")

	md.Table(rowsTable([]string{"Metric", "Value", "Description"}, metricRows(report)))
	md.PlainText("")

	md.H3("Technology Stack")
	md.PlainText("")
	techRows := make([][]string, 0, len(report.TechStack))
	for _, tech := range report.TechStack {
		techRows = append(techRows, []string{tech.Name, tech.Version, tech.Category, tech.Status})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Technology", "Version", "Category", "Status"},
		Rows:   techRows,
	})
	md.PlainText("")

	md.H3("Recommendations")
	md.PlainText("")
	if len(report.Issues) == 0 {
		md.PlainText("No issues detected.")
		md.PlainText("")
		return
	}

	w.writeIssueChart(md, report)

	issueRows := make([][]string, 0, len(report.Issues))
	for _, issue := range report.Issues {
		issueRows = append(issueRows, []string{
			issue.Priority.String(),
			issue.Title,
			issue.Category,
			issue.Impact,
			issue.Effort,
			orDash(issue.EstimatedSaving),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Priority", "Issue", "Category", "Impact", "Effort", "Saving"},
		Rows:   issueRows,
	})
	md.PlainText("")

	for _, issue := range report.Issues {
		md.Details(issue.Title, issueDetails(issue))
	}
	md.PlainText("")
}

// issueDetails renders the body of a collapsible issue.
func issueDetails(issue model.Issue) string {
	var sb strings.Builder
	sb.WriteString(issue.Description)
	sb.WriteString("\n\n")
	for i, step := range issue.RemediationSteps {
		sb.WriteString(strconv.Itoa(i+1) + ". " + step + "\n")
	}
	if issue.CodeSnippet != "" {
		sb.WriteString("\n```\n" + issue.CodeSnippet + "\n```\n")
	}
	return sb.String()
}

// writeIssueChart writes a mermaid pie chart of issues per category.
func (w *MarkdownWriter) writeIssueChart(md *markdown.Markdown, report *model.AuditReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issues by Category"),
		piechart.WithShowData(true),
	)

	order, counts := issueCategoryCounts(report)
	for _, category := range order {
		chart.LabelAndIntValue(category, uint64(counts[category]))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSEO writes the SEO and accessibility checks.
func (w *MarkdownWriter) writeSEO(md *markdown.Markdown, report *model.AuditReport) {
	md.H2(sectionTitle("seo"))
	md.PlainText("")

	md.Table(rowsTable([]string{"Check", "Status", "Details"}, seoChecks))
	md.PlainText("")

	md.H3("Accessibility")
	md.PlainText("")
	md.Table(rowsTable([]string{"Check", "Status"}, accessibilityChecks))
	md.PlainText("")

	w.writeRelatedIssues(md, sectionIssues(report, "seo"))
}

// writeSecurity writes the cookie audit.
func (w *MarkdownWriter) writeSecurity(md *markdown.Markdown, report *model.AuditReport) {
	md.H2(sectionTitle("security"))
	md.PlainText("")

	rows := make([][]string, 0, len(report.Cookies))
	for _, c := range report.Cookies {
		rows = append(rows, []string{"`" + c.Name + "`", c.Type, c.SecurityLabel()})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Cookie", "Type", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeRelatedIssues(md, sectionIssues(report, "security"))
}

// writeRelatedIssues lists the issues of a section, if any.
func (w *MarkdownWriter) writeRelatedIssues(md *markdown.Markdown, issues []model.Issue) {
	if len(issues) == 0 {
		return
	}
	items := make([]string, 0, len(issues))
	for _, issue := range issues {
		items = append(items, "**"+issue.Priority.String()+"** "+issue.Title+" ("+issue.Category+")")
	}
	md.H3(relatedIssuesHeading)
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

// writeBusiness writes the business-impact projection.
func (w *MarkdownWriter) writeBusiness(md *markdown.Markdown, report *model.AuditReport) {
	md.H2(sectionTitle("business"))
	md.PlainText("")

	md.Table(rowsTable([]string{"Indicator", "Value", "Description"}, businessRows(report)))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by AuditFlow*")
}

// rowsTable converts rows into a table. Headers with two columns drop the
// description.
func rowsTable(header []string, rows []row) markdown.TableSet {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(header) == 2 {
			out = append(out, []string{r.Label, r.Value})
			continue
		}
		out = append(out, []string{r.Label, r.Value, orDash(r.Description)})
	}
	return markdown.TableSet{Header: header, Rows: out}
}
