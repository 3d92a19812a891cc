package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/nao1215/auditflow/internal/generator"
	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/session"
	"github.com/nao1215/auditflow/internal/storage"
)

// testEnv isolates a command run from the user's configuration and history.
type testEnv struct {
	configPath string
	dataDir    string
}

// newTestEnv creates an empty configuration file and data directory.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".auditflow")
	if err := os.WriteFile(configPath, []byte("defaults: {}\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return testEnv{configPath: configPath, dataDir: filepath.Join(dir, "data")}
}

// storageArgs returns the flags pointing a command at the environment.
func (e testEnv) storageArgs() []string {
	return []string{"--config", e.configPath, "--data-dir", e.dataDir}
}

// fastAuditArgs returns audit flags that finish an analysis in a few milliseconds.
func (e testEnv) fastAuditArgs() []string {
	return append([]string{"--tick", "1ms", "--duration", "2ms", "--settle", "0s"}, e.storageArgs()...)
}

// executeCmd runs the root command with args and captures its output.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// command builds a single argument list from parts.
func command(parts ...[]string) []string {
	var args []string
	for _, p := range parts {
		args = append(args, p...)
	}
	return args
}

// seedHistory saves a report for every url, in order, so the last url is
// the most recent entry. Report IDs are "report-1", "report-2", ...
func seedHistory(t *testing.T, env testEnv, urls ...string) []*model.AuditReport {
	t.Helper()

	store, err := storage.Open(env.dataDir, storage.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	n := 0
	gen := generator.New(
		generator.WithIDFunc(func() string {
			n++
			return "report-" + strconv.Itoa(n)
		}),
		generator.WithClock(func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		}),
	)

	ctx := context.Background()
	history := session.LoadHistory(ctx, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	reports := make([]*model.AuditReport, 0, len(urls))
	for _, url := range urls {
		r := gen.Generate(url)
		if err := history.Add(ctx, r); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
		reports = append(reports, r)
	}
	return reports
}
