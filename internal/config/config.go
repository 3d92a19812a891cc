package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/auditflow/internal/progress"
	"github.com/nao1215/auditflow/internal/share"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "auditflow"

	// DefaultFormat is the report format written when none is configured.
	DefaultFormat = "text"

	// DefaultTick is the interval between progress updates.
	DefaultTick = progress.DefaultTick

	// DefaultTotalDuration is how long an analysis takes to reach 100%.
	DefaultTotalDuration = progress.DefaultTotalDuration

	// DefaultSettleDelay is the pause between 100% and the report.
	DefaultSettleDelay = progress.DefaultSettleDelay

	// DefaultShareBaseURL is the host share links point at.
	DefaultShareBaseURL = share.DefaultBaseURL
)

// Log output formats.
const (
	// LogFormatText writes logs as key=value text.
	LogFormatText = "text"

	// LogFormatJSON writes one JSON object per log record.
	LogFormatJSON = "json"
)

// Config holds all configuration options for AuditFlow.
// This struct is populated from built-in defaults, then the configuration
// file, then CLI flags, and is passed through the application rather than
// kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small and every command reads a different subset.
type Config struct {
	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogFormat selects the log output format (text or json).
	LogFormat string

	// Quiet suppresses the progress display. The report is still written.
	Quiet bool

	// Format is the report format name (text, json, markdown, csv, html, pdf).
	Format string

	// OutputFile is where reports are written. Empty means stdout.
	// With several targets it must name a directory.
	OutputFile string

	// Overrides holds the export settings given explicitly on the command
	// line. They take precedence over per-site settings from the file.
	Overrides SiteConfig

	// Tick is the interval between progress updates.
	Tick time.Duration

	// TotalDuration is how long an analysis takes to reach 100%.
	TotalDuration time.Duration

	// SettleDelay is the pause between 100% and the report.
	SettleDelay time.Duration

	// ShareBaseURL is the host used for share links.
	ShareBaseURL string

	// DataDir is the directory holding the history database.
	// Defaults to XDG data directory (~/.local/share/auditflow on Linux).
	DataDir string

	// NoHistory keeps history in memory for this run only.
	NoHistory bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .auditflow in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Settings holds the configuration file contents.
	Settings *File

	// Targets is the list of URLs to audit.
	Targets []string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		LogFormat:     LogFormatText,
		Format:        DefaultFormat,
		Tick:          DefaultTick,
		TotalDuration: DefaultTotalDuration,
		SettleDelay:   DefaultSettleDelay,
		ShareBaseURL:  DefaultShareBaseURL,
		DataDir:       XDGDataDir(),
		Settings:      NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for AuditFlow.
// On Linux: ~/.local/share/auditflow
// On macOS: ~/Library/Application Support/auditflow
// On Windows: %LOCALAPPDATA%\auditflow
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for AuditFlow.
// On Linux: ~/.config/auditflow
// On macOS: ~/Library/Application Support/auditflow
// On Windows: %APPDATA%\auditflow
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply overlays the file's global settings onto c.
// Zero values in the file leave c unchanged.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	c.Settings = f

	if f.Defaults.Format != "" {
		c.Format = f.Defaults.Format
	}
	if f.Defaults.Output != "" {
		c.OutputFile = f.Defaults.Output
	}
	if f.Progress.Tick != 0 {
		c.Tick = f.Progress.Tick
	}
	if f.Progress.Duration != 0 {
		c.TotalDuration = f.Progress.Duration
	}
	if f.Progress.Settle != 0 {
		c.SettleDelay = f.Progress.Settle
	}
	if f.ShareBaseURL != "" {
		c.ShareBaseURL = f.ShareBaseURL
	}
	if f.DataDir != "" {
		c.DataDir = f.DataDir
	}
	if f.LogFormat != "" {
		c.LogFormat = f.LogFormat
	}
}

// ParseLogFormat normalizes a log format name.
func ParseLogFormat(s string) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(s)); format {
	case LogFormatText, LogFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLogFormat, s)
	}
}

// SiteFor returns the export settings for url.
// Precedence, lowest first: global defaults, the file's per-site entry,
// explicit command-line overrides.
func (c *Config) SiteFor(url string) SiteConfig {
	result := SiteConfig{
		Format: c.Format,
		Output: c.OutputFile,
	}
	if c.Settings != nil {
		result.Title = c.Settings.Defaults.Title
		result = result.merge(c.Settings.Sites[url])
	}
	return result.merge(c.Overrides)
}

// Validate checks if the configuration is valid for an audit run.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// We return the first error found because fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Tick <= 0 {
		return ErrInvalidTick
	}

	// The run must last at least one tick
	if c.TotalDuration < c.Tick {
		return ErrInvalidDuration
	}

	if c.SettleDelay < 0 {
		return ErrInvalidSettleDelay
	}

	if !c.NoHistory && c.DataDir == "" {
		return ErrEmptyDataDir
	}

	// Several reports cannot share one output file
	if len(c.Targets) > 1 && c.OutputFile != "" && !IsDirTarget(c.OutputFile) {
		return ErrSharedOutputFile
	}

	return nil
}

// IsDirTarget reports whether path names a directory: it ends with a path
// separator or is an existing directory.
func IsDirTarget(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
