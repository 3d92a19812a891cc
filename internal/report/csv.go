package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/auditflow/internal/model"
)

// csvHeader is the column layout of CSV exports.
var csvHeader = []string{"section", "item", "value", "detail"}

// CSVWriter outputs reports as CSV with one row per reported value.
// Rows are grouped by section in display order so spreadsheets can filter
// on the first column.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in CSV format.
func (w *CSVWriter) Write(report *model.AuditReport) (int, error) {
	cw := &countingWriter{w: w.output}
	writer := csv.NewWriter(cw)

	if err := writer.WriteAll(csvRecords(report)); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// csvRecords flattens a report into CSV records, header first.
func csvRecords(report *model.AuditReport) [][]string {
	records := [][]string{
		csvHeader,
		{"report", "url", report.URL, ""},
		{"report", "id", report.ID, ""},
		{"report", "timestamp", report.Timestamp.Format(time.RFC3339Nano), ""},
	}

	for _, r := range scoreRows(report) {
		records = append(records, []string{"scores", strings.ToLower(r.Label), r.Value, r.Description})
	}
	for _, r := range metricRows(report) {
		records = append(records, []string{"metrics", r.Label, r.Value, r.Description})
	}
	for _, tech := range report.TechStack {
		records = append(records, []string{"techStack", tech.Name, tech.Version, tech.Category + " / " + tech.Status})
	}
	for _, issue := range report.Issues {
		records = append(records, []string{
			"issues",
			issue.Title,
			issue.Priority.String(),
			issue.Category + " / impact " + issue.Impact + " / effort " + issue.Effort + " / " + issue.EstimatedSaving,
		})
	}
	for _, c := range report.Cookies {
		records = append(records, []string{"cookies", c.Name, c.SecurityLabel(), c.Type})
	}
	for _, r := range businessRows(report) {
		records = append(records, []string{"business", r.Label, r.Value, r.Description})
	}
	records = append(records, []string{"summary", "issueCount", strconv.Itoa(len(report.Issues)), ""})

	return records
}
