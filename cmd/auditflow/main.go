// Package main provides the entry point for the AuditFlow CLI.
//
// AuditFlow produces website audit reports covering performance, SEO,
// security, accessibility and business impact. Reports are derived
// deterministically from the URL, so auditing the same URL twice yields the
// same findings.
//
// Usage:
//
//	auditflow audit <url>
//	auditflow history
//	auditflow export --format pdf
//
// See --help for all available options.
package main

// main is the entry point for AuditFlow.
func main() {
	Execute()
}
