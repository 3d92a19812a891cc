package session

import "errors"

var (
	// ErrEmptyURL is returned by Submit when the URL is blank after trimming.
	ErrEmptyURL = errors.New("url must not be empty")

	// ErrInvalidTransition is returned when an event is not allowed in the
	// current view.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNilReport is returned when a nil report is opened from history.
	ErrNilReport = errors.New("report must not be nil")

	// ErrAnalysisAborted is returned by AwaitReport when the session leaves
	// the Analyzing view without producing a report.
	ErrAnalysisAborted = errors.New("analysis aborted before completion")
)
