package model

import (
	"errors"
	"fmt"
	"time"
)

// Score bounds shared by every score in a report.
const (
	// MinScore is the lowest possible score.
	MinScore = 0

	// MaxScore is the highest possible score.
	MaxScore = 100

	// GoodScoreThreshold is the score a category must exceed to be rated "Good".
	GoodScoreThreshold = 80
)

// Score ratings shown next to each score card.
const (
	RatingGood      = "Good"
	RatingNeedsWork = "Needs Work"
)

// AuditReport is the complete structured output of one analysis for a URL.
// A report is never modified after it has been generated; history entries
// and the current session report point to the same immutable value.
//
// Design decision: We keep the report flat (scores, metrics and business
// figures as small fixed records) rather than a generic key/value bag because
// every writer renders the same fixed sections and benefits from compile-time
// field access.
type AuditReport struct {
	// ID is an opaque identifier unique to this generation.
	ID string `json:"id"`

	// URL is the normalized input URL.
	URL string `json:"url"`

	// Timestamp is when the report was generated (UTC).
	Timestamp time.Time `json:"timestamp"`

	// Scores holds the overall and per-category scores.
	Scores Scores `json:"scores"`

	// Metrics holds formatted performance timings.
	Metrics Metrics `json:"metrics"`

	// TechStack lists the technologies detected for the URL.
	TechStack []Technology `json:"techStack"`

	// Issues lists the findings included for the URL, in catalog order.
	Issues []Issue `json:"issues"`

	// Cookies lists the cookies observed on the site.
	Cookies []Cookie `json:"cookies"`

	// Business holds the business-impact projection.
	Business Business `json:"business"`
}

// Scores holds the five report scores, each in [0,100].
// Overall is the rounded arithmetic mean of the other four.
type Scores struct {
	Overall       int `json:"overall"`
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Security      int `json:"security"`
	Accessibility int `json:"accessibility"`
}

// Metrics holds performance timings as display strings (magnitude + unit).
type Metrics struct {
	// FirstContentfulPaint in seconds with one decimal, e.g. "1.3s".
	FirstContentfulPaint string `json:"fcp"`

	// LargestContentfulPaint in seconds with one decimal, e.g. "2.8s".
	LargestContentfulPaint string `json:"lcp"`

	// CumulativeLayoutShift is unitless with three decimals, e.g. "0.042".
	CumulativeLayoutShift string `json:"cls"`

	// TimeToFirstByte in integer milliseconds, e.g. "87ms".
	TimeToFirstByte string `json:"ttfb"`

	// InteractionLatency in integer milliseconds, e.g. "212ms".
	InteractionLatency string `json:"interaction"`
}

// Technology is one detected entry of the tech stack.
type Technology struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

// Issue is one finding with remediation guidance.
type Issue struct {
	// Priority is the remediation tier (P0 is most urgent).
	Priority Priority `json:"id"`

	// Title is a short summary of the finding.
	Title string `json:"title"`

	// Category is the report section the issue belongs to
	// (Performance, SEO, Security, Accessibility).
	Category string `json:"category"`

	// Impact is the expected impact level (High, Medium, Low).
	Impact string `json:"impact"`

	// Effort is the expected remediation effort.
	Effort string `json:"effort"`

	// Description explains the finding.
	Description string `json:"desc"`

	// EstimatedSaving describes the expected gain of fixing the issue.
	EstimatedSaving string `json:"saving"`

	// RemediationSteps are the ordered steps to fix the issue.
	RemediationSteps []string `json:"steps"`

	// CodeSnippet is an example fix.
	CodeSnippet string `json:"codeSnippet"`
}

// Cookie is one observed cookie.
type Cookie struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Secure bool   `json:"secure"`
}

// SecurityLabel returns "Secure" or "Insecure".
func (c Cookie) SecurityLabel() string {
	if c.Secure {
		return "Secure"
	}
	return "Insecure"
}

// Business holds the projected business impact of fixing the issues.
type Business struct {
	// PotentialUplift is a percentage string, e.g. "27%".
	PotentialUplift string `json:"potentialUplift"`

	// LostRevenue is a monthly currency string, e.g. "$5,432/mo".
	LostRevenue string `json:"lostRevenue"`

	// MarketPosition is a coarse label such as "Top 30%".
	MarketPosition string `json:"marketPosition"`
}

// ScoreRating returns the badge label for a score.
func ScoreRating(score int) string {
	if score > GoodScoreThreshold {
		return RatingGood
	}
	return RatingNeedsWork
}

// TopIssues returns at most n issues from the start of the issue list.
// The returned slice must not be modified.
func (r *AuditReport) TopIssues(n int) []Issue {
	if n <= 0 {
		return nil
	}
	if n > len(r.Issues) {
		n = len(r.Issues)
	}
	return r.Issues[:n]
}

// IssuesByCategory returns the issues of the given category in report order.
func (r *AuditReport) IssuesByCategory(category string) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Category == category {
			issues = append(issues, issue)
		}
	}
	return issues
}

// ErrInvalidReport is returned by Validate for structurally broken reports.
var ErrInvalidReport = errors.New("invalid audit report")

// Validate performs a structural check of a report.
// It is used when reading persisted history, which may have been written by
// an older version or edited by hand.
func (r *AuditReport) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil report", ErrInvalidReport)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidReport)
	}
	if r.URL == "" {
		return fmt.Errorf("%w: missing url", ErrInvalidReport)
	}

	scores := map[string]int{
		"overall":       r.Scores.Overall,
		"performance":   r.Scores.Performance,
		"seo":           r.Scores.SEO,
		"security":      r.Scores.Security,
		"accessibility": r.Scores.Accessibility,
	}
	for name, v := range scores {
		if v < MinScore || v > MaxScore {
			return fmt.Errorf("%w: %s score %d out of range", ErrInvalidReport, name, v)
		}
	}
	return nil
}
