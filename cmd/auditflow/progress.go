package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/progress"
)

// Terminal palette.
var (
	primaryColor = lipgloss.Color("#7D56F4")
	goodColor    = lipgloss.Color("#00D26A")
	warnColor    = lipgloss.Color("#FFB800")
	mutedColor   = lipgloss.Color("#6B7280")
)

// Terminal styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(primaryColor).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	percentStyle = lipgloss.NewStyle().
			Bold(true)

	phaseStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	goodStyle = lipgloss.NewStyle().
			Foreground(goodColor).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor).
			Bold(true)
)

// progressBarWidth is the number of cells in the progress bar.
const progressBarWidth = 30

// progressDisplay redraws a single progress line on a terminal.
// Update is called from timer goroutines, so all writes are serialized.
type progressDisplay struct {
	mu     sync.Mutex
	w      io.Writer
	active bool
}

// newProgressDisplay creates a display writing to w.
func newProgressDisplay(w io.Writer) *progressDisplay {
	return &progressDisplay{w: w}
}

// Begin prints the heading for the n-th of total analyses.
func (d *progressDisplay) Begin(url string, n, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	heading := "Analyzing " + url
	if total > 1 {
		heading = fmt.Sprintf("[%d/%d] %s", n, total, heading)
	}
	fmt.Fprintln(d.w, titleStyle.Render(heading))
}

// Update redraws the progress line.
func (d *progressDisplay) Update(snap progress.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(d.w, "\r\033[K%s %s %s",
		barStyle.Render(progressBar(snap.Percent, progressBarWidth)),
		percentStyle.Render(fmt.Sprintf("%3.0f%%", snap.Percent)),
		phaseStyle.Render(fmt.Sprintf("(%d/%d) %s", snap.Phase+1, snap.PhaseCount, snap.Label)),
	)
	d.active = true
}

// Done ends the progress line.
func (d *progressDisplay) Done() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		fmt.Fprintln(d.w)
		d.active = false
	}
}

// progressBar draws a bar of width cells filled to percent.
func progressBar(percent float64, width int) string {
	filled := int(float64(width) * percent / 100)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// scoreStyle colors a score by its rating.
func scoreStyle(score int) lipgloss.Style {
	if model.ScoreRating(score) == model.RatingGood {
		return goodStyle
	}
	return warnStyle
}
