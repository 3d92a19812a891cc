package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no URL is given to audit.
	ErrNoTarget = errors.New("no target specified: provide at least one URL")

	// ErrInvalidTick is returned when the progress tick is not positive.
	ErrInvalidTick = errors.New("invalid tick: must be positive")

	// ErrInvalidDuration is returned when the run is shorter than one tick.
	ErrInvalidDuration = errors.New("invalid duration: must be at least one tick")

	// ErrInvalidSettleDelay is returned when the settle delay is negative.
	ErrInvalidSettleDelay = errors.New("invalid settle delay: must be non-negative")

	// ErrEmptyDataDir is returned when history is enabled without a data directory.
	ErrEmptyDataDir = errors.New("data directory must not be empty unless --no-history is set")

	// ErrSharedOutputFile is returned when several targets would be written
	// to the same file. Use a directory instead.
	ErrSharedOutputFile = errors.New("--output must be a directory when auditing several URLs")

	// ErrInvalidLogFormat is returned when the log format is neither text nor json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")
)
