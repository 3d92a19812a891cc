package config

import "time"

// SiteConfig holds export settings for a single URL.
type SiteConfig struct {
	// Format overrides the report format for this site.
	Format string `yaml:"format,omitempty"`

	// Output overrides the report destination for this site.
	Output string `yaml:"output,omitempty"`

	// Title overrides the document title of HTML and PDF exports.
	Title string `yaml:"title,omitempty"`
}

// merge returns s with every non-empty field of o applied on top.
func (s SiteConfig) merge(o SiteConfig) SiteConfig {
	if o.Format != "" {
		s.Format = o.Format
	}
	if o.Output != "" {
		s.Output = o.Output
	}
	if o.Title != "" {
		s.Title = o.Title
	}
	return s
}

// ProgressConfig paces the analysis animation.
type ProgressConfig struct {
	// Tick is the interval between progress updates.
	Tick time.Duration `yaml:"tick,omitempty"`

	// Duration is how long an analysis takes to reach 100%.
	Duration time.Duration `yaml:"duration,omitempty"`

	// Settle is the pause between 100% and the report.
	Settle time.Duration `yaml:"settle,omitempty"`
}

// File represents the structure of the .auditflow configuration file.
type File struct {
	// Defaults contains export settings applied to every URL
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps URLs, exactly as passed to audit, to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Progress paces the analysis animation.
	Progress ProgressConfig `yaml:"progress,omitempty"`

	// ShareBaseURL is the host used for share links.
	ShareBaseURL string `yaml:"shareBaseURL,omitempty"`

	// DataDir overrides the history database directory.
	DataDir string `yaml:"dataDir,omitempty"`

	// LogFormat selects the log output format (text or json).
	LogFormat string `yaml:"logFormat,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{Sites: make(map[string]SiteConfig)}
}
