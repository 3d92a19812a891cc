package progress

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be stopped.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock schedules one-shot callbacks.
type Clock interface {
	// AfterFunc calls f once d has elapsed and returns a Timer that can
	// cancel the call.
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules callbacks with time.AfterFunc.
// Callbacks run on their own goroutine.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// VirtualClock is a manually advanced Clock.
// Callbacks run synchronously inside Advance, in due-time order, and callbacks
// scheduled by a running callback are honored within the same Advance call
// when they fall due before its end.
type VirtualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*virtualTimer
}

// virtualTimer is a callback registered on a VirtualClock.
type virtualTimer struct {
	clock *VirtualClock
	due   time.Duration
	seq   uint64
	f     func()
	done  bool
}

// NewVirtualClock creates a VirtualClock at time zero.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// AfterFunc implements Clock.
func (c *VirtualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}
	c.seq++
	t := &virtualTimer{clock: c, due: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Stop implements Timer.
func (t *virtualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.clock.remove(t)
	return true
}

// remove drops t from the pending list. Callers hold c.mu.
func (c *VirtualClock) remove(t *virtualTimer) {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.due
		next.done = true
		c.remove(next)
		c.mu.Unlock()

		// Run without the lock so the callback can schedule or stop timers.
		next.f()
	}
}

// nextDue returns the earliest pending timer due at or before target.
// Callers hold c.mu.
func (c *VirtualClock) nextDue(target time.Duration) *virtualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.Slice(c.pending, func(i, j int) bool {
		if c.pending[i].due == c.pending[j].due {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].due < c.pending[j].due
	})
	if c.pending[0].due > target {
		return nil
	}
	return c.pending[0]
}

// Now returns the elapsed virtual time.
func (c *VirtualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of scheduled callbacks that have not fired.
func (c *VirtualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
