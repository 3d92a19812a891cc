package model

import "strings"

// Priority is the remediation tier of an issue.
// P0 issues should be fixed first.
//
// Design decision: Priority is a string type rather than an iota constant
// because the tier label itself ("P0") is what gets persisted and displayed;
// Rank provides the ordering when one is needed.
type Priority string

const (
	// PriorityP0 marks issues with the largest measurable impact.
	PriorityP0 Priority = "P0"

	// PriorityP1 marks high impact issues.
	PriorityP1 Priority = "P1"

	// PriorityP2 marks medium impact issues that are cheap to fix.
	PriorityP2 Priority = "P2"

	// PriorityP3 marks compliance and polish issues.
	PriorityP3 Priority = "P3"
)

// String returns the tier label.
func (p Priority) String() string {
	return string(p)
}

// Rank returns the sort rank of the priority: 0 for P0 up to 3 for P3.
// Unknown priorities rank after every known tier.
func (p Priority) Rank() int {
	switch Priority(strings.ToUpper(string(p))) {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	default:
		return 4
	}
}

// Label returns a short human-readable description of the tier.
func (p Priority) Label() string {
	switch p.Rank() {
	case 0:
		return "Critical"
	case 1:
		return "High"
	case 2:
		return "Medium"
	case 3:
		return "Low"
	default:
		return "Unknown"
	}
}
