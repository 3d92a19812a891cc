package session

import "github.com/nao1215/auditflow/internal/model"

// View is the active screen of a session.
type View int

const (
	// ViewLanding accepts a URL and shows recent history.
	ViewLanding View = iota

	// ViewAnalyzing shows progress for the submitted URL.
	ViewAnalyzing

	// ViewReport shows a finished report.
	ViewReport
)

// String returns the view name.
func (v View) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewAnalyzing:
		return "analyzing"
	case ViewReport:
		return "report"
	default:
		return "unknown"
	}
}

// State is a committed session state.
// URL is set only while Analyzing and Report only in the Report view.
type State struct {
	View   View
	URL    string
	Report *model.AuditReport
}

// landing returns the initial state.
func landing() State {
	return State{View: ViewLanding}
}
