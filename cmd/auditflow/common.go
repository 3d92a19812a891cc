package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/auditflow/internal/config"
	"github.com/nao1215/auditflow/internal/log"
	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/report"
	"github.com/nao1215/auditflow/internal/session"
	"github.com/nao1215/auditflow/internal/storage"
)

// errHistoryEntryNotFound is returned when no history entry matches a reference.
var errHistoryEntryNotFound = errors.New("history entry not found")

// errHistoryEmpty is returned when a command needs a report but history is empty.
var errHistoryEmpty = errors.New("history is empty (run 'auditflow audit <url>' first)")

// errAmbiguousReference is returned when an ID prefix matches several entries.
var errAmbiguousReference = errors.New("ambiguous history reference")

// errSharedFormatFile is returned when several formats would be written to
// the same file.
var errSharedFormatFile = errors.New("--output must be a directory when writing several formats")

// addStorageFlags registers the flags every history-backed command shares.
func addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .auditflow in current or home directory)")
	cmd.Flags().String("data-dir", "",
		"Directory holding the history database (default: XDG data directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on the verbosity and log
// format settings. Secrets embedded in audited URLs are masked.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return log.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return log.NewSecureLogger(w, cfg.Verbose)
}

// loadConfig builds a Config from defaults, the configuration file and the
// storage flags. If the user explicitly names a config file that does not
// exist, it is an error; otherwise a missing file is silently ignored.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	// The flag is inherited from the root command, so it is absent when a
	// subcommand runs on its own.
	if f := cmd.Flag("log-format"); f != nil && f.Changed {
		cfg.LogFormat = f.Value.String()
	}
	if cfg.LogFormat, err = config.ParseLogFormat(cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, err = cmd.Flags().GetString("data-dir")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// openStore opens the history store. With NoHistory the store lives in
// memory and disappears when the command exits.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.NoHistory {
		return storage.NewMemoryStore(), nil
	}
	if cfg.DataDir == "" {
		return nil, config.ErrEmptyDataDir
	}
	store, err := storage.Open(cfg.DataDir, storage.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, nil
}

// findEntry resolves a history reference. An empty reference selects the
// most recent report; otherwise ref is an exact report ID or a unique prefix
// of one.
func findEntry(history *session.History, ref string) (*model.AuditReport, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		recent := history.Recent(1)
		if len(recent) == 0 {
			return nil, errHistoryEmpty
		}
		return recent[0], nil
	}

	if r, ok := history.Find(ref); ok {
		return r, nil
	}

	var match *model.AuditReport
	for _, r := range history.Entries() {
		if !strings.HasPrefix(r.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %q matches more than one report", errAmbiguousReference, ref)
		}
		match = r
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", errHistoryEntryNotFound, ref)
	}
	return match, nil
}

// newReportWriter returns the writer for format, applying the site's
// document title to the formats that carry one.
func newReportWriter(f report.Format, w io.Writer, site config.SiteConfig) (report.Writer, error) {
	if site.Title != "" {
		switch f {
		case report.FormatHTML:
			return report.NewHTMLWriter(w, report.WithTitle(site.Title)), nil
		case report.FormatPDF:
			return report.NewPDFWriter(w, report.WithPDFTitle(site.Title)), nil
		case report.FormatText, report.FormatJSON, report.FormatMarkdown, report.FormatCSV:
		}
	}
	return report.NewWriter(f, w)
}

// outputPath decides where a report goes. An empty result means stdout.
// Binary formats are never written to stdout; they fall back to the default
// file name in the current directory. A directory destination receives the
// default file name.
func outputPath(dest string, r *model.AuditReport, f report.Format) string {
	switch {
	case dest == "" && f.Binary():
		return report.FileName(r.ID, f)
	case dest == "":
		return ""
	case config.IsDirTarget(dest):
		return filepath.Join(dest, report.FileName(r.ID, f))
	default:
		return dest
	}
}

// siteFormats returns the formats named by site. Several formats need a
// directory destination, or none, in which case every file goes to the
// current directory.
func siteFormats(site config.SiteConfig) ([]report.Format, error) {
	formats, err := report.ParseFormats(site.Format)
	if err != nil {
		return nil, err
	}
	if len(formats) > 1 && site.Output != "" && !config.IsDirTarget(site.Output) {
		return nil, fmt.Errorf("%w: %s", errSharedFormatFile, site.Output)
	}
	return formats, nil
}

// createOutputFile creates path and its parent directory.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may describe unreleased sites, so only the owner can read them
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}

// writeReport renders r in every format named by site, to stdout or to the
// destination in site. It returns the files written; stdout is not listed.
// When anything fails, the files created so far are removed.
func writeReport(stdout io.Writer, r *model.AuditReport, site config.SiteConfig) (paths []string, err error) {
	formats, err := siteFormats(site)
	if err != nil {
		return nil, err
	}

	dest := site.Output
	if len(formats) > 1 && dest == "" {
		dest = "."
	}

	var files []*os.File
	defer func() {
		for _, file := range files {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}
		if err != nil {
			for _, path := range paths {
				_ = os.Remove(path)
			}
			paths = nil
		}
	}()

	writers := make([]report.Writer, 0, len(formats))
	for _, f := range formats {
		out := stdout
		if path := outputPath(dest, r, f); path != "" {
			file, err := createOutputFile(path)
			if err != nil {
				return paths, err
			}
			files = append(files, file)
			paths = append(paths, path)
			out = file
		}

		w, err := newReportWriter(f, out, site)
		if err != nil {
			return paths, err
		}
		writers = append(writers, w)
	}

	if _, err := report.NewMultiWriter(writers...).Write(r); err != nil {
		return paths, fmt.Errorf("failed to write %s report: %w", site.Format, err)
	}
	return paths, nil
}

// printSaved reports the files a command wrote.
func printSaved(w io.Writer, paths []string) {
	for _, path := range paths {
		fmt.Fprintf(w, "Report saved to %s\n", path)
	}
}

// loadHistory opens the store and reads the history from it.
// The returned close function releases the store.
func loadHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.History, func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history database", "error", err)
		}
	}
	return session.LoadHistory(ctx, store, logger), closeStore, nil
}
