package report

import (
	"strconv"

	"github.com/nao1215/auditflow/internal/model"
)

// Section is one tab of a rendered report.
type Section struct {
	// Key is the stable identifier of the section.
	Key string

	// Title is the heading shown to readers.
	Title string
}

// Sections lists the report sections in display order.
var Sections = []Section{
	{Key: "overview", Title: "Overview"},
	{Key: "technical", Title: "Technical Audit"},
	{Key: "seo", Title: "SEO & Access"},
	{Key: "security", Title: "Security"},
	{Key: "business", Title: "Business Intel"},
}

// OverviewIssueCount is the number of top issues shown in the overview.
const OverviewIssueCount = 3

// row is a labeled value with an explanation.
type row struct {
	Label       string
	Value       string
	Description string
}

// seoChecks are the on-page checks shown in the SEO section.
var seoChecks = []row{
	{Label: "Title Tag", Value: "Pass", Description: "Found and optimal length."},
	{Label: "Meta Description", Value: "Fail", Description: "Missing on homepage."},
	{Label: "H1 Header", Value: "Pass", Description: "One unique H1 found."},
}

// accessibilityChecks are the checks shown in the accessibility panel.
var accessibilityChecks = []row{
	{Label: "Contrast Ratio", Value: "AA Passed"},
	{Label: "ARIA Labels", Value: "92% Coverage"},
}

// scoreRows returns the score cards with their ratings.
func scoreRows(r *model.AuditReport) []row {
	s := r.Scores
	return []row{
		{Label: "Overall", Value: strconv.Itoa(s.Overall), Description: model.ScoreRating(s.Overall)},
		{Label: "Performance", Value: strconv.Itoa(s.Performance), Description: model.ScoreRating(s.Performance)},
		{Label: "SEO", Value: strconv.Itoa(s.SEO), Description: model.ScoreRating(s.SEO)},
		{Label: "Security", Value: strconv.Itoa(s.Security), Description: model.ScoreRating(s.Security)},
		{Label: "Accessibility", Value: strconv.Itoa(s.Accessibility), Description: model.ScoreRating(s.Accessibility)},
	}
}

// metricRows returns the performance timings.
func metricRows(r *model.AuditReport) []row {
	m := r.Metrics
	return []row{
		{Label: "First Contentful Paint", Value: m.FirstContentfulPaint, Description: "Time to render first DOM content."},
		{Label: "Largest Contentful Paint", Value: m.LargestContentfulPaint, Description: "Time to render largest block."},
		{Label: "Cumulative Layout Shift", Value: m.CumulativeLayoutShift, Description: "Visual stability while loading."},
		{Label: "Time to First Byte", Value: m.TimeToFirstByte, Description: "Server response latency."},
		{Label: "Total Blocking Time", Value: m.InteractionLatency, Description: "Main thread blocking time."},
	}
}

// businessRows returns the business-impact projection.
func businessRows(r *model.AuditReport) []row {
	b := r.Business
	return []row{
		{Label: "Conversion Potential", Value: b.PotentialUplift, Description: "Estimated increase by fixing critical UX issues."},
		{Label: "Revenue Opportunity", Value: b.LostRevenue, Description: "Potential revenue loss due to slow load times."},
		{Label: "Market Position", Value: b.MarketPosition, Description: "Relative to competitors in your sector."},
	}
}

// issueCategoryCounts counts issues per category in first-seen order.
func issueCategoryCounts(r *model.AuditReport) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for _, issue := range r.Issues {
		if counts[issue.Category] == 0 {
			order = append(order, issue.Category)
		}
		counts[issue.Category]++
	}
	return order, counts
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sectionTitle returns the title of the section with the given key.
func sectionTitle(key string) string {
	for _, s := range Sections {
		if s.Key == key {
			return s.Title
		}
	}
	return key
}

// sectionCategories maps section keys onto the issue categories they list.
var sectionCategories = map[string][]string{
	"seo":      {"SEO", "Accessibility"},
	"security": {"Security"},
}

// sectionIssues returns the issues listed under a section, grouped by
// category in sectionCategories order.
func sectionIssues(r *model.AuditReport, key string) []model.Issue {
	var out []model.Issue
	for _, category := range sectionCategories[key] {
		out = append(out, r.IssuesByCategory(category)...)
	}
	return out
}

// relatedIssuesHeading heads the per-section issue lists.
const relatedIssuesHeading = "Related Issues"
