package report

import (
	"io"
	"strconv"
	"time"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/nao1215/auditflow/internal/model"
)

// PDF layout constants in millimeters.
const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfLabelWidth = 60.0
	pdfValueWidth = 35.0
)

// PDFWriter outputs a report as a paginated PDF document.
//
// Design decision: The document is drawn with go-pdf/fpdf core fonts rather
// than by converting HTML, so exports need no browser or external binary.
// Text is translated to cp1252 because core fonts cannot encode UTF-8.
type PDFWriter struct {
	baseWriter

	// title is the document title.
	title string

	// creationDate fixes the embedded creation date when non-zero.
	creationDate time.Time
}

// PDFWriterOption configures a PDFWriter.
type PDFWriterOption func(*PDFWriter)

// WithPDFTitle sets the document title.
func WithPDFTitle(title string) PDFWriterOption {
	return func(w *PDFWriter) {
		w.title = title
	}
}

// WithCreationDate fixes the creation date stored in the document.
// By default the report timestamp is used.
func WithCreationDate(t time.Time) PDFWriterOption {
	return func(w *PDFWriter) {
		w.creationDate = t
	}
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...PDFWriterOption) *PDFWriter {
	w := &PDFWriter{
		baseWriter: newBaseWriter(output),
		title:      "Website Audit Report",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the report and writes the PDF bytes.
func (w *PDFWriter) Write(report *model.AuditReport) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	created := w.creationDate
	if created.IsZero() {
		created = report.Timestamp
	}
	pdf.SetCreationDate(created)
	pdf.SetTitle(w.title, true)
	pdf.SetCreator("AuditFlow", true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, "Page "+strconv.Itoa(pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w.addHeader(pdf, tr, report)
	w.addOverview(pdf, tr, report)
	w.addTechnical(pdf, tr, report)
	w.addSEO(pdf, tr, report)
	w.addSecurity(pdf, tr, report)
	w.addBusiness(pdf, tr, report)

	cw := &countingWriter{w: w.output}
	if err := pdf.Output(cw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// addHeader writes the title block.
func (w *PDFWriter) addHeader(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AuditReport) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 12, tr(w.title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 116, 139)
	pdf.MultiCell(0, 5, tr(report.URL), "", "L", false)
	pdf.CellFormat(0, 5, report.Timestamp.Format("2006-01-02 15:04:05 MST")+"  |  "+report.ID, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

// addHeading writes a section heading.
func (w *PDFWriter) addHeading(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(125, 86, 244)
	pdf.CellFormat(0, 9, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

// addRows writes a label/value/description table.
func (w *PDFWriter) addRows(pdf *gofpdf.Fpdf, tr func(string) string, rows []row) {
	for i, r := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(248, 250, 252)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(pdfLabelWidth, pdfLineHeight, tr(r.Label), "1", 0, "L", true, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		switch r.Description {
		case model.RatingGood:
			pdf.SetTextColor(5, 150, 105)
		case model.RatingNeedsWork:
			pdf.SetTextColor(217, 119, 6)
		}
		pdf.CellFormat(pdfValueWidth, pdfLineHeight, tr(r.Value), "1", 0, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, pdfLineHeight, tr(r.Description), "1", 1, "L", true, 0, "")
	}
	pdf.Ln(2)
}

// addOverview writes scores and the top issues.
func (w *PDFWriter) addOverview(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AuditReport) {
	w.addHeading(pdf, tr, sectionTitle("overview"))
	w.addRows(pdf, tr, scoreRows(report))

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 7, "Top Issues", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	top := report.TopIssues(OverviewIssueCount)
	if len(top) == 0 {
		pdf.CellFormat(0, pdfLineHeight, "No issues detected.", "", 1, "L", false, 0, "")
		return
	}
	for _, issue := range top {
		pdf.CellFormat(0, pdfLineHeight, tr(issue.Priority.String()+"  "+issue.Title+" ("+issue.Category+")"), "", 1, "L", false, 0, "")
	}
}

// addTechnical writes metrics, stack and recommendations.
func (w *PDFWriter) addTechnical(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AuditReport) {
	w.addHeading(pdf, tr, sectionTitle("technical"))
	w.addRows(pdf, tr, metricRows(report))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(pdfLabelWidth, 8, "Technology", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfValueWidth, 8, "Version", "1", 0, "C", true, 0, "")
	pdf.CellFormat(pdfValueWidth, 8, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 8, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	for _, tech := range report.TechStack {
		pdf.CellFormat(pdfLabelWidth, 7, tr(tech.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfValueWidth, 7, tr(tech.Version), "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfValueWidth, 7, tr(tech.Category), "1", 0, "C", false, 0, "")
		pdf.CellFormat(0, 7, tr(tech.Status), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, issue := range report.Issues {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(15, 23, 42)
		pdf.MultiCell(0, 6, tr(issue.Priority.String()+"  "+issue.Title), "", "L", false)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, tr(issue.Description), "", "L", false)
		pdf.MultiCell(0, 5, tr("Impact: "+issue.Impact+"   Effort: "+issue.Effort+"   Saving: "+issue.EstimatedSaving), "", "L", false)
		for i, step := range issue.RemediationSteps {
			pdf.MultiCell(0, 5, tr(strconv.Itoa(i+1)+". "+step), "", "L", false)
		}
		if issue.CodeSnippet != "" {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(241, 245, 249)
			pdf.MultiCell(0, 5, tr(issue.CodeSnippet), "", "L", true)
		}
		pdf.Ln(3)
	}
}

// addSEO writes the SEO and accessibility checks.
func (w *PDFWriter) addSEO(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AuditReport) {
	w.addHeading(pdf, tr, sectionTitle("seo"))
	w.addRows(pdf, tr, seoChecks)
	w.addRows(pdf, tr, accessibilityChecks)
	w.addRelatedIssues(pdf, tr, sectionIssues(report, "seo"))
}

// addSecurity writes the cookie audit.
func (w *PDFWriter) addSecurity(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AuditReport) {
	w.addHeading(pdf, tr, sectionTitle("security"))
	for _, c := range report.Cookies {
		pdf.SetFont("Courier", "", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(pdfLabelWidth, 7, tr(c.Name), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(pdfValueWidth, 7, tr(c.Type), "1", 0, "C", false, 0, "")
		if c.Secure {
			pdf.SetTextColor(5, 150, 105)
		} else {
			pdf.SetTextColor(220, 38, 38)
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, c.SecurityLabel(), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	w.addRelatedIssues(pdf, tr, sectionIssues(report, "security"))
}

// addRelatedIssues lists the issues of a section, if any.
func (w *PDFWriter) addRelatedIssues(pdf *gofpdf.Fpdf, tr func(string) string, issues []model.Issue) {
	if len(issues) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 7, relatedIssuesHeading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, issue := range issues {
		pdf.CellFormat(0, pdfLineHeight, tr(issue.Priority.String()+"  "+issue.Title+" ("+issue.Category+")"), "", 1, "L", false, 0, "")
	}
}

// addBusiness writes the business-impact projection.
func (w *PDFWriter) addBusiness(pdf *gofpdf.Fpdf, tr func(string) string, report *model.AuditReport) {
	w.addHeading(pdf, tr, sectionTitle("business"))
	w.addRows(pdf, tr, businessRows(report))
}
