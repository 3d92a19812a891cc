package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// newTestReport returns a small valid report.
func newTestReport() *AuditReport {
	return &AuditReport{
		ID:        "abc123",
		URL:       "https://example.com",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Scores: Scores{
			Overall:       80,
			Performance:   70,
			SEO:           80,
			Security:      90,
			Accessibility: 80,
		},
		Issues: []Issue{
			{Priority: PriorityP0, Title: "a", Category: "Performance"},
			{Priority: PriorityP2, Title: "b", Category: "SEO"},
			{Priority: PriorityP2, Title: "c", Category: "Security"},
			{Priority: PriorityP3, Title: "d", Category: "Performance"},
		},
		Cookies: []Cookie{
			{Name: "_ga", Type: "Analytics", Secure: true},
			{Name: "preference_data", Type: "Functional", Secure: false},
		},
	}
}

// TestScoreRating tests the badge threshold.
func TestScoreRating(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score    int
		expected string
	}{
		{0, RatingNeedsWork},
		{80, RatingNeedsWork},
		{81, RatingGood},
		{100, RatingGood},
	}

	for _, tc := range testCases {
		if got := ScoreRating(tc.score); got != tc.expected {
			t.Errorf("ScoreRating(%d) = %q, expected %q", tc.score, got, tc.expected)
		}
	}
}

// TestCookieSecurityLabel tests the cookie badge label.
func TestCookieSecurityLabel(t *testing.T) {
	t.Parallel()

	if got := (Cookie{Secure: true}).SecurityLabel(); got != "Secure" {
		t.Errorf("expected Secure, got %q", got)
	}
	if got := (Cookie{}).SecurityLabel(); got != "Insecure" {
		t.Errorf("expected Insecure, got %q", got)
	}
}

// TestAuditReportTopIssues tests slicing the leading issues.
func TestAuditReportTopIssues(t *testing.T) {
	t.Parallel()

	report := newTestReport()

	t.Run("returns first n issues", func(t *testing.T) {
		t.Parallel()
		top := report.TopIssues(3)
		if len(top) != 3 {
			t.Fatalf("expected 3 issues, got %d", len(top))
		}
		if top[0].Title != "a" || top[2].Title != "c" {
			t.Errorf("unexpected order: %+v", top)
		}
	})

	t.Run("caps at issue count", func(t *testing.T) {
		t.Parallel()
		if got := len(report.TopIssues(10)); got != 4 {
			t.Errorf("expected 4 issues, got %d", got)
		}
	})

	t.Run("non-positive n returns nil", func(t *testing.T) {
		t.Parallel()
		if got := report.TopIssues(0); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}

// TestAuditReportIssuesByCategory tests category filtering.
func TestAuditReportIssuesByCategory(t *testing.T) {
	t.Parallel()

	report := newTestReport()
	perf := report.IssuesByCategory("Performance")
	if len(perf) != 2 {
		t.Fatalf("expected 2 performance issues, got %d", len(perf))
	}
	if perf[0].Title != "a" || perf[1].Title != "d" {
		t.Errorf("unexpected issues: %+v", perf)
	}
	if got := report.IssuesByCategory("Accessibility"); len(got) != 0 {
		t.Errorf("expected no accessibility issues, got %d", len(got))
	}
}

// TestAuditReportValidate tests structural validation.
func TestAuditReportValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(r *AuditReport)
		wantErr bool
	}{
		{name: "valid report", mutate: func(*AuditReport) {}},
		{name: "missing id", mutate: func(r *AuditReport) { r.ID = "" }, wantErr: true},
		{name: "missing url", mutate: func(r *AuditReport) { r.URL = "" }, wantErr: true},
		{name: "score above range", mutate: func(r *AuditReport) { r.Scores.SEO = 101 }, wantErr: true},
		{name: "negative score", mutate: func(r *AuditReport) { r.Scores.Overall = -1 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			report := newTestReport()
			tc.mutate(report)
			err := report.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidReport) {
					t.Errorf("expected ErrInvalidReport, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("nil report", func(t *testing.T) {
		t.Parallel()
		var r *AuditReport
		if err := r.Validate(); !errors.Is(err, ErrInvalidReport) {
			t.Errorf("expected ErrInvalidReport, got %v", err)
		}
	})
}

// TestAuditReportJSONKeys verifies the persisted field names.
func TestAuditReportJSONKeys(t *testing.T) {
	t.Parallel()

	report := newTestReport()
	report.Metrics = Metrics{FirstContentfulPaint: "1.1s", TimeToFirstByte: "20ms"}
	report.Issues[0].Description = "desc text"
	report.Issues[0].RemediationSteps = []string{"one"}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(data)

	for _, key := range []string{
		`"techStack"`, `"fcp":"1.1s"`, `"ttfb":"20ms"`, `"id":"P0"`,
		`"desc":"desc text"`, `"steps":["one"]`, `"potentialUplift"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("expected JSON to contain %s, got %s", key, out)
		}
	}
}
