package progress

import (
	"errors"
	"math"
	"sync"
	"time"
)

// Default animation timings.
const (
	// DefaultTick is the interval between progress updates.
	DefaultTick = 50 * time.Millisecond

	// DefaultTotalDuration is the time from start to 100%.
	DefaultTotalDuration = 4000 * time.Millisecond

	// DefaultSettleDelay is the pause between reaching 100% and completion.
	DefaultSettleDelay = 800 * time.Millisecond
)

// DefaultPhases are the labeled steps shown while an analysis runs.
var DefaultPhases = []string{
	"Crawling website structure...",
	"Detecting technologies...",
	"Running performance tests...",
	"Analyzing SEO factors...",
	"Checking security protocols...",
	"Generating recommendations...",
}

// Errors returned by the simulator.
var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("progress simulator already started")

	// ErrInvalidTiming is returned by New when tick, total or settle are unusable.
	ErrInvalidTiming = errors.New("invalid progress timing: tick and total must be positive, total >= tick, settle >= 0")

	// ErrNoPhases is returned by New when the phase list is empty.
	ErrNoPhases = errors.New("progress simulator needs at least one phase")
)

// State is the lifecycle state of a Simulator.
type State int

const (
	// StateIdle means Start has not been called.
	StateIdle State = iota

	// StateRunning means ticks are being scheduled.
	StateRunning

	// StateSettling means progress reached 100% and completion is pending.
	StateSettling

	// StateCompleted means the completion callback has fired.
	StateCompleted

	// StateCancelled means Cancel stopped the simulation before completion.
	StateCancelled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSettling:
		return "settling"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time view of a Simulator.
type Snapshot struct {
	// Percent is the progress in [0,100].
	Percent float64

	// Phase is the index of the active phase.
	Phase int

	// Label is the label of the active phase.
	Label string

	// PhaseCount is the number of phases.
	PhaseCount int

	// State is the lifecycle state.
	State State
}

// Simulator is a tick-driven progress state machine.
// It is safe for concurrent use; listener and completion callbacks are
// always invoked without internal locks held.
type Simulator struct {
	clock    Clock
	tick     time.Duration
	total    time.Duration
	settle   time.Duration
	phases   []string
	listener func(Snapshot)

	mu         sync.Mutex
	state      State
	percent    float64
	phase      int
	timer      Timer
	onComplete func()
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock sets the clock used to schedule ticks.
func WithClock(clock Clock) Option {
	return func(s *Simulator) {
		s.clock = clock
	}
}

// WithTick sets the tick interval.
func WithTick(d time.Duration) Option {
	return func(s *Simulator) {
		s.tick = d
	}
}

// WithTotalDuration sets the time from start to 100%.
func WithTotalDuration(d time.Duration) Option {
	return func(s *Simulator) {
		s.total = d
	}
}

// WithSettleDelay sets the pause between 100% and completion.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Simulator) {
		s.settle = d
	}
}

// WithPhases replaces the phase labels.
func WithPhases(phases []string) Option {
	return func(s *Simulator) {
		s.phases = append([]string(nil), phases...)
	}
}

// WithUpdateListener registers a function called with a snapshot after
// every tick and when the simulation completes.
func WithUpdateListener(f func(Snapshot)) Option {
	return func(s *Simulator) {
		s.listener = f
	}
}

// New creates a Simulator with the default timings and phases unless
// overridden by options.
func New(opts ...Option) (*Simulator, error) {
	s := &Simulator{
		clock:  RealClock{},
		tick:   DefaultTick,
		total:  DefaultTotalDuration,
		settle: DefaultSettleDelay,
		phases: append([]string(nil), DefaultPhases...),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tick <= 0 || s.total <= 0 || s.total < s.tick || s.settle < 0 {
		return nil, ErrInvalidTiming
	}
	if len(s.phases) == 0 {
		return nil, ErrNoPhases
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}

	return s, nil
}

// Increment returns the percentage points added per tick.
func (s *Simulator) Increment() float64 {
	return 100 / (float64(s.total) / float64(s.tick))
}

// Start begins ticking. onComplete is called exactly once, after progress
// reaches 100% and the settle delay has elapsed, unless Cancel is called
// first. A Simulator can only be started once.
func (s *Simulator) Start(onComplete func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	s.state = StateRunning
	s.onComplete = onComplete
	s.timer = s.clock.AfterFunc(s.tick, s.onTick)
	return nil
}

// Cancel stops the simulation. No further updates or completion are emitted.
// Cancel is a no-op once the simulation has completed or been cancelled.
func (s *Simulator) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning, StateSettling:
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.state = StateCancelled
	case StateIdle:
		s.state = StateCancelled
	case StateCompleted, StateCancelled:
	}
}

// Snapshot returns the current progress.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked builds a Snapshot. Callers hold s.mu.
func (s *Simulator) snapshotLocked() Snapshot {
	return Snapshot{
		Percent:    s.percent,
		Phase:      s.phase,
		Label:      s.phases[s.phase],
		PhaseCount: len(s.phases),
		State:      s.state,
	}
}

// onTick advances progress by one increment.
func (s *Simulator) onTick() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}

	next := s.percent + s.Increment()
	if next >= 100 {
		s.percent = 100
		s.phase = len(s.phases) - 1
		s.state = StateSettling
		s.timer = s.clock.AfterFunc(s.settle, s.onSettled)
	} else {
		s.percent = next
		s.phase = PhaseIndex(next, len(s.phases))
		s.timer = s.clock.AfterFunc(s.tick, s.onTick)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// onSettled fires the completion callback.
func (s *Simulator) onSettled() {
	s.mu.Lock()
	if s.state != StateSettling {
		s.mu.Unlock()
		return
	}
	s.state = StateCompleted
	s.timer = nil
	done := s.onComplete
	s.onComplete = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if done != nil {
		done()
	}
}

// notify forwards a snapshot to the listener, if any.
func (s *Simulator) notify(snap Snapshot) {
	if s.listener != nil {
		s.listener(snap)
	}
}

// PhaseIndex maps a percentage onto a phase index:
// floor(percent/100 * phaseCount), clamped to [0, phaseCount-1].
func PhaseIndex(percent float64, phaseCount int) int {
	if phaseCount <= 0 {
		return 0
	}
	idx := int(math.Floor(percent / 100 * float64(phaseCount)))
	if idx < 0 {
		return 0
	}
	if idx >= phaseCount {
		return phaseCount - 1
	}
	return idx
}
