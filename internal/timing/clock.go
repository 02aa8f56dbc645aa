package timing

import (
	"sort"
	"sync"
	"time"
)

// Timer is a one-shot timer that can be stopped.
// The interface allows mock implementations in tests.
type Timer interface {
	Stop() bool
}

// Clock provides monotonic time and one-shot callbacks.
//
// NowMs returns fractional milliseconds since an arbitrary epoch. Only
// differences are meaningful. Implementations must be monotonic: for two
// successive calls A then B on the same instance, B >= A holds even across
// wall-clock adjustments.
type Clock interface {
	NowMs() float64
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock implements Clock on the runtime's monotonic clock by measuring
// elapsed time from a process-start anchor.
type SystemClock struct {
	anchor time.Time
}

// NewSystemClock returns a SystemClock anchored at the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{anchor: time.Now()}
}

func (c *SystemClock) NowMs() float64 {
	return float64(time.Since(c.anchor)) / float64(time.Millisecond)
}

func (c *SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock for deterministic tests. Time only moves when
// Advance is called; due callbacks fire synchronously, in deadline order,
// on the advancing goroutine.
type ManualClock struct {
	mu     sync.Mutex
	nowMs  float64
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	dueMs   float64
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) NowMs() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowMs
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{
		clock: c,
		dueMs: c.nowMs + float64(d)/float64(time.Millisecond),
		f:     f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires every timer whose deadline has
// passed, earliest first. Callbacks run without the clock lock held, so they
// may arm new timers; newly armed timers already due fire in the same call.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.nowMs += float64(d) / float64(time.Millisecond)
	c.mu.Unlock()

	for {
		t := c.nextDue()
		if t == nil {
			return
		}
		t.f()
	}
}

func (c *ManualClock) nextDue() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].dueMs < c.timers[j].dueMs
	})
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.dueMs <= c.nowMs {
			t.fired = true
			return t
		}
	}
	return nil
}
