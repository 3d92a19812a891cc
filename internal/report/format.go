package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownFormat is returned when a format name is not recognized.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is an export format.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// formatAliases maps accepted spellings onto formats.
var formatAliases = map[string]Format{
	"text":     FormatText,
	"txt":      FormatText,
	"simple":   FormatText,
	"json":     FormatJSON,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"csv":      FormatCSV,
	"html":     FormatHTML,
	"htm":      FormatHTML,
	"pdf":      FormatPDF,
}

// Formats returns every supported format in display order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown, FormatCSV, FormatHTML, FormatPDF}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: text, json, markdown, csv, html, pdf)", ErrUnknownFormat, s)
	}
	return f, nil
}

// ParseFormats parses a comma-separated list of format names.
// Repeated formats are dropped, keeping the order of first appearance.
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	seen := make(map[Format]bool)
	for _, name := range strings.Split(s, ",") {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	case FormatHTML:
		return ".html"
	case FormatPDF:
		return ".pdf"
	default:
		return ""
	}
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatPDF
}

// NewWriter returns the Writer for format f.
// JSON output is pretty-printed, matching exported files.
func NewWriter(f Format, output io.Writer) (Writer, error) {
	switch f {
	case FormatText:
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatHTML:
		return NewHTMLWriter(output), nil
	case FormatPDF:
		return NewPDFWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// FileName returns the default export file name for a report id.
func FileName(id string, f Format) string {
	if id == "" {
		id = "report"
	}
	return "audit-" + id + f.Extension()
}
