// Package report renders audit reports for export.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: The report's persisted JSON layout
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid issue chart
//   - CSVWriter: One row per metric, score and issue for spreadsheets
//   - HTMLWriter: A standalone HTML page
//   - PDFWriter: A paginated PDF document
//
// Every human-oriented writer renders the same five sections (overview,
// technical audit, SEO and accessibility, security, business intel) from the
// shared tables in sections.go, so the formats never disagree on content.
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so that new output formats never touch
// the generator or the persisted layout.
package report
