package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/auditflow/internal/generator"
	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/progress"
)

// ReportGenerator builds a report for a URL.
type ReportGenerator interface {
	Generate(url string) *model.AuditReport
}

// Controller is the session state machine.
// It is safe for concurrent use. Listeners are invoked without internal
// locks held, so they may call back into the controller.
type Controller struct {
	history   *History
	generator ReportGenerator
	logger    *slog.Logger
	simOpts   []progress.Option

	stateListeners   []func(State)
	progressListener func(progress.Snapshot)

	mu         sync.Mutex
	state      State
	sim        *progress.Simulator
	generation uint64

	// changed is closed and replaced on every committed state.
	changed chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithGenerator sets the report generator.
func WithGenerator(g ReportGenerator) Option {
	return func(c *Controller) {
		c.generator = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSimulatorOptions sets the options used for every progress simulator
// the controller starts.
func WithSimulatorOptions(opts ...progress.Option) Option {
	return func(c *Controller) {
		c.simOpts = append(c.simOpts, opts...)
	}
}

// WithStateListener registers a function called with every committed state.
func WithStateListener(f func(State)) Option {
	return func(c *Controller) {
		c.stateListeners = append(c.stateListeners, f)
	}
}

// WithProgressListener registers a function called with every progress
// update of the active run.
func WithProgressListener(f func(progress.Snapshot)) Option {
	return func(c *Controller) {
		c.progressListener = f
	}
}

// NewController creates a Controller in the Landing view.
// A nil history is replaced by an in-memory one.
func NewController(history *History, opts ...Option) *Controller {
	c := &Controller{
		history: history,
		state:   landing(),
		changed: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.generator == nil {
		c.generator = generator.New()
	}
	if c.history == nil {
		c.history = LoadHistory(context.Background(), nil, c.logger)
	}

	return c
}

// State returns the committed state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns the session history.
func (c *Controller) History() *History {
	return c.history
}

// Progress returns the progress of the active run.
// ok is false outside the Analyzing view.
func (c *Controller) Progress() (snap progress.Snapshot, ok bool) {
	c.mu.Lock()
	sim := c.sim
	c.mu.Unlock()

	if sim == nil {
		return progress.Snapshot{}, false
	}
	return sim.Snapshot(), true
}

// Submit starts analyzing url. Surrounding whitespace is trimmed.
func (c *Controller) Submit(url string) error {
	c.mu.Lock()

	if c.state.View != ViewLanding {
		view := c.state.View
		c.mu.Unlock()
		return fmt.Errorf("%w: submit while %s", ErrInvalidTransition, view)
	}

	url = strings.TrimSpace(url)
	if url == "" {
		c.mu.Unlock()
		return ErrEmptyURL
	}

	c.generation++
	gen := c.generation

	opts := append([]progress.Option(nil), c.simOpts...)
	if c.progressListener != nil {
		opts = append(opts, progress.WithUpdateListener(func(snap progress.Snapshot) {
			if c.isCurrent(gen) {
				c.progressListener(snap)
			}
		}))
	}

	sim, err := progress.New(opts...)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to create progress simulator: %w", err)
	}
	if err := sim.Start(func() { c.complete(gen, url) }); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to start progress simulator: %w", err)
	}

	c.sim = sim
	next := c.commitLocked(State{View: ViewAnalyzing, URL: url})
	c.mu.Unlock()

	c.logger.Debug("analysis started", "url", url)
	c.notify(next)
	return nil
}

// complete finishes run gen. Completions from stale runs are ignored.
func (c *Controller) complete(gen uint64, url string) {
	c.mu.Lock()
	if gen != c.generation || c.state.View != ViewAnalyzing {
		c.mu.Unlock()
		c.logger.Debug("ignoring stale completion", "url", url)
		return
	}

	report := c.generator.Generate(url)
	if err := c.history.Add(context.Background(), report); err != nil {
		c.logger.Warn("failed to persist history", "error", err)
	}

	c.sim = nil
	next := c.commitLocked(State{View: ViewReport, Report: report})
	c.mu.Unlock()

	c.logger.Debug("analysis completed", "url", url, "id", report.ID)
	c.notify(next)
}

// LoadFromHistory shows a stored report without regenerating it.
func (c *Controller) LoadFromHistory(report *model.AuditReport) error {
	if report == nil {
		return ErrNilReport
	}

	c.mu.Lock()
	if c.state.View != ViewLanding {
		view := c.state.View
		c.mu.Unlock()
		return fmt.Errorf("%w: load history while %s", ErrInvalidTransition, view)
	}
	next := c.commitLocked(State{View: ViewReport, Report: report})
	c.mu.Unlock()

	c.notify(next)
	return nil
}

// Reset returns to the Landing view. From Analyzing the active run is
// cancelled and its completion will never be observed.
func (c *Controller) Reset() error {
	c.mu.Lock()
	switch c.state.View {
	case ViewReport:
	case ViewAnalyzing:
		c.teardownLocked()
	case ViewLanding:
		c.mu.Unlock()
		return fmt.Errorf("%w: reset while %s", ErrInvalidTransition, ViewLanding)
	}
	next := c.commitLocked(landing())
	c.mu.Unlock()

	c.notify(next)
	return nil
}

// ClearHistory empties the history. It is only allowed from Landing.
func (c *Controller) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	if c.state.View != ViewLanding {
		view := c.state.View
		c.mu.Unlock()
		return fmt.Errorf("%w: clear history while %s", ErrInvalidTransition, view)
	}
	c.mu.Unlock()

	return c.history.Clear(ctx)
}

// AwaitReport blocks until the Report view is reached and returns its
// report. It returns ErrAnalysisAborted if the session returns to Landing
// first, or the context error if ctx is done.
func (c *Controller) AwaitReport(ctx context.Context) (*model.AuditReport, error) {
	for {
		c.mu.Lock()
		state := c.state
		changed := c.changed
		c.mu.Unlock()

		switch state.View {
		case ViewReport:
			return state.Report, nil
		case ViewLanding:
			return nil, ErrAnalysisAborted
		case ViewAnalyzing:
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-changed:
		}
	}
}

// Close tears down an active run and returns to Landing.
// It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.state.View != ViewAnalyzing {
		c.mu.Unlock()
		return
	}
	c.teardownLocked()
	next := c.commitLocked(landing())
	c.mu.Unlock()

	c.notify(next)
}

// teardownLocked cancels the active simulator and invalidates its
// completion. Callers hold c.mu.
func (c *Controller) teardownLocked() {
	if c.sim != nil {
		c.sim.Cancel()
		c.sim = nil
	}
	c.generation++
}

// commitLocked installs next and wakes waiters. Callers hold c.mu.
func (c *Controller) commitLocked(next State) State {
	c.state = next
	close(c.changed)
	c.changed = make(chan struct{})
	return next
}

// isCurrent reports whether gen is the active run.
func (c *Controller) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation && c.state.View == ViewAnalyzing
}

// notify forwards a committed state to the listeners.
func (c *Controller) notify(state State) {
	for _, f := range c.stateListeners {
		f(state)
	}
}
