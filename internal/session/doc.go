// Package session drives an audit from URL submission to a rendered report.
//
// The Controller is a three-view state machine:
//
//	Landing --Submit--> Analyzing --completion--> Report --Reset--> Landing
//	Landing --LoadFromHistory--> Report
//	Analyzing --Reset--> Landing (the run is torn down)
//
// Every other event is rejected with ErrInvalidTransition and leaves the
// state untouched. While Analyzing, a progress.Simulator paces the run; when
// it completes the controller generates the report, prepends it to History
// and persists the history through a storage.Store.
//
// Design decision: Each run carries a generation number. Completions from a
// run that was reset or closed observe a stale generation and are dropped,
// so a late timer can never resurrect an abandoned analysis.
package session
