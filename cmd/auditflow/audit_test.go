package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/auditflow/internal/config"
	"github.com/nao1215/auditflow/internal/generator"
	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/report"
	"github.com/nao1215/auditflow/internal/session"
	"github.com/nao1215/auditflow/internal/storage"
)

// TestNewAuditCmd tests the audit command flags.
func TestNewAuditCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAuditCmd()

	testCases := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "format", shorthand: "F", defValue: "text"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "quiet", shorthand: "q", defValue: "false"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "tick", defValue: "50ms"},
		{name: "duration", defValue: "4s"},
		{name: "settle", defValue: "800ms"},
		{name: "data-dir", defValue: ""},
		{name: "no-history", defValue: "false"},
		{name: "title", defValue: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tc.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tc.name)
			}
			if flag.Shorthand != tc.shorthand {
				t.Errorf("expected shorthand %q, got %q", tc.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tc.defValue {
				t.Errorf("expected default %q, got %q", tc.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildConfig tests that only flags the user set override the file.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".auditflow")
	content := `defaults:
  format: markdown
progress:
  tick: 10ms
sites:
  https://example.com:
    format: pdf
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Run("file settings apply when flags are unset", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"--config", configPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, []string{"https://example.com", "https://other.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Tick != 10*time.Millisecond {
			t.Errorf("expected tick from file, got %v", cfg.Tick)
		}
		if cfg.TotalDuration != config.DefaultTotalDuration {
			t.Errorf("expected default duration, got %v", cfg.TotalDuration)
		}
		if got := cfg.SiteFor("https://example.com").Format; got != "pdf" {
			t.Errorf("expected site format pdf, got %q", got)
		}
		if got := cfg.SiteFor("https://other.example").Format; got != "markdown" {
			t.Errorf("expected default format markdown, got %q", got)
		}
	})

	t.Run("flags override file and site settings", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		args := []string{"--config", configPath, "-F", "json", "--tick", "5ms", "--no-history", "-q"}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Tick != 5*time.Millisecond {
			t.Errorf("expected tick from flag, got %v", cfg.Tick)
		}
		if !cfg.NoHistory || !cfg.Quiet {
			t.Error("expected NoHistory and Quiet to be set")
		}
		if got := cfg.SiteFor("https://example.com").Format; got != "json" {
			t.Errorf("expected flag format json, got %q", got)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(dir, "missing.yaml")}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		_, err := buildConfig(cmd, []string{"https://example.com"})
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestAuditCmd_EndToEnd runs audits against a temporary data directory.
func TestAuditCmd_EndToEnd(t *testing.T) {
	t.Parallel()

	const target = "https://example.com"

	t.Run("writes JSON report and saves history", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		stdout, _, err := executeCmd(t, command(
			[]string{"audit", "-q", "-F", "json"}, env.fastAuditArgs(), []string{"  " + target + "  "},
		)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.AuditReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("output is not a JSON report: %v\n%s", err, stdout)
		}
		if got.URL != target {
			t.Errorf("expected trimmed URL %q, got %q", target, got.URL)
		}
		if want := generator.Generate(target); got.Scores != want.Scores {
			t.Errorf("expected scores %+v, got %+v", want.Scores, got.Scores)
		}

		listing, _, err := executeCmd(t, command([]string{"history"}, env.storageArgs())...)
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(listing, target) || !strings.Contains(listing, shortID(got.ID)) {
			t.Errorf("expected history to list the report, got:\n%s", listing)
		}
	})

	t.Run("shows progress unless quiet", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		stdout, stderr, err := executeCmd(t, command([]string{"audit"}, env.fastAuditArgs(), []string{target})...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(stderr, "Analyzing "+target) {
			t.Errorf("expected heading on stderr, got %q", stderr)
		}
		if !strings.Contains(stderr, "100%") {
			t.Errorf("expected completed progress on stderr, got %q", stderr)
		}
		if !strings.Contains(stdout, "WEBSITE AUDIT REPORT") {
			t.Errorf("expected text report on stdout, got %q", stdout)
		}
	})

	t.Run("several targets into a directory", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		outDir := filepath.Join(t.TempDir(), "reports") + string(filepath.Separator)

		_, _, err := executeCmd(t, command(
			[]string{"audit", "-q", "-F", "markdown", "-o", outDir},
			env.fastAuditArgs(),
			[]string{"https://a.example", "https://b.example"},
		)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		files, err := filepath.Glob(filepath.Join(outDir, "audit-*.md"))
		if err != nil {
			t.Fatalf("glob failed: %v", err)
		}
		if len(files) != 2 {
			t.Errorf("expected 2 markdown reports, got %v", files)
		}
	})

	t.Run("several formats into a directory", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		outDir := filepath.Join(t.TempDir(), "reports") + string(filepath.Separator)

		_, stderr, err := executeCmd(t, command(
			[]string{"audit", "-F", "json,html", "-o", outDir},
			env.fastAuditArgs(),
			[]string{target},
		)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, pattern := range []string{"audit-*.json", "audit-*.html"} {
			files, err := filepath.Glob(filepath.Join(outDir, pattern))
			if err != nil {
				t.Fatalf("glob failed: %v", err)
			}
			if len(files) != 1 {
				t.Errorf("expected one %s report, got %v", pattern, files)
			}
		}
		if got := strings.Count(stderr, "Report saved to "); got != 2 {
			t.Errorf("expected two saved files reported, got %d in %q", got, stderr)
		}
	})

	t.Run("json logs", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, stderr, err := executeCmd(t, command(
			[]string{"audit", "-q", "-v", "--log-format", "json"}, env.fastAuditArgs(), []string{target},
		)...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, `"msg":"starting audit"`) {
			t.Errorf("expected JSON log records, got %q", stderr)
		}
	})

	t.Run("no-history leaves saved history untouched", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, _, err := executeCmd(t, command([]string{"audit", "-q", "--no-history"}, env.fastAuditArgs(), []string{target})...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		listing, _, err := executeCmd(t, command([]string{"history"}, env.storageArgs())...)
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(listing, "No saved reports.") {
			t.Errorf("expected empty history, got:\n%s", listing)
		}
	})
}

// TestAuditCmd_Errors tests validation failures.
func TestAuditCmd_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		err  error
	}{
		{name: "no targets", args: nil, err: config.ErrNoTarget},
		{name: "unknown format", args: []string{"-F", "docx", "https://example.com"}, err: report.ErrUnknownFormat},
		{name: "duration shorter than tick", args: []string{"--tick", "10ms", "--duration", "5ms", "https://example.com"}, err: config.ErrInvalidDuration},
		{
			name: "several targets into one file",
			args: []string{"-o", "report.md", "https://a.example", "https://b.example"},
			err:  config.ErrSharedOutputFile,
		},
		{
			name: "several formats into one file",
			args: []string{"-F", "json,html", "-o", "report.json", "https://example.com"},
			err:  errSharedFormatFile,
		},
		{
			name: "unknown log format",
			args: []string{"--log-format", "yaml", "https://example.com"},
			err:  config.ErrInvalidLogFormat,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			_, _, err := executeCmd(t, command([]string{"audit", "-q"}, env.storageArgs(), tc.args)...)
			if !errors.Is(err, tc.err) {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

// TestRunAudit_Interrupted tests that cancelling the context tears down the
// running analysis instead of waiting for it, and saves nothing.
func TestRunAudit_Interrupted(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.DataDir = t.TempDir()
	cfg.Quiet = true
	cfg.Targets = []string{"https://a.example", "https://b.example"}
	cfg.Tick = 10 * time.Millisecond
	cfg.TotalDuration = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var stdout bytes.Buffer
	start := time.Now()
	err := runAudit(ctx, cfg, &stdout, io.Discard, logger)
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "audit interrupted") {
		t.Errorf("expected interrupted error, got %v", err)
	}
	if elapsed > 10*time.Second {
		t.Errorf("expected prompt teardown, took %v", elapsed)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no report output, got %q", stdout.String())
	}

	store, err := storage.Open(cfg.DataDir, storage.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()
	if n := session.LoadHistory(context.Background(), store, logger).Len(); n != 0 {
		t.Errorf("expected empty history, got %d entries", n)
	}
}
