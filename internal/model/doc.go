// Package model defines the core data structures used throughout AuditFlow.
//
// This package contains the following main types:
//   - AuditReport: The complete result of one (simulated) website audit
//   - Scores, Metrics, Business: Fixed-shape records inside a report
//   - Technology, Issue, Cookie: Ordered report entries
//   - Priority: The remediation tier of an issue (P0 to P3)
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The generator, session, storage and report packages all use
// these types, so centralizing them prevents import cycles.
//
// JSON field names follow the layout that AuditFlow has always persisted
// history in (camelCase, short issue keys such as "desc" and "steps"), so
// stored histories stay readable across versions.
package model
