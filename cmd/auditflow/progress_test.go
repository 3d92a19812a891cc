package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/auditflow/internal/progress"
)

// TestProgressBar tests the bar drawing.
func TestProgressBar(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		percent float64
		filled  int
	}{
		{percent: 0, filled: 0},
		{percent: 50, filled: 5},
		{percent: 100, filled: 10},
		{percent: 130, filled: 10},
		{percent: -5, filled: 0},
	}

	for _, tc := range testCases {
		bar := progressBar(tc.percent, 10)
		if got := strings.Count(bar, "█"); got != tc.filled {
			t.Errorf("progressBar(%v): expected %d filled cells, got %d (%s)", tc.percent, tc.filled, got, bar)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("progressBar(%v): expected 10 cells, got %d", tc.percent, got)
		}
	}
}

// TestProgressDisplay tests the progress line lifecycle.
func TestProgressDisplay(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := newProgressDisplay(&buf)

	d.Begin("https://example.com", 2, 3)
	d.Update(progress.Snapshot{Percent: 50, Phase: 3, Label: "Analyzing SEO factors...", PhaseCount: 6})
	d.Done()
	d.Done()

	output := buf.String()
	for _, want := range []string{"[2/3] Analyzing https://example.com", " 50%", "(4/6) Analyzing SEO factors..."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output %q", want, output)
		}
	}
	if !strings.HasSuffix(output, "\n") || strings.HasSuffix(output, "\n\n") {
		t.Errorf("expected exactly one trailing newline, got %q", output)
	}
}
