package viewctl

import (
	"sync"
	"time"
)

// ManualClock is a Scheduler driven by Advance. Callbacks run on the
// goroutine calling Advance, in due order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	at      time.Duration
	every   time.Duration
	f       func()
	stopped bool
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the elapsed manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of live timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.add(d, 0, f)
}

func (c *ManualClock) Every(d time.Duration, f func()) Timer {
	return c.add(d, d, f)
}

func (c *ManualClock) add(d, every time.Duration, f func()) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, every: every, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing every timer that falls due.
func (c *ManualClock) Advance(d time.Duration) {
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
		c.now = next.at
		if next.every > 0 {
			next.at += next.every
		} else {
			next.stopped = true
		}
		f := next.f
		c.mu.Unlock()
		f()
	}
}

func (c *ManualClock) nextDue(limit time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range c.timers {
		if t.stopped || t.at > limit {
			continue
		}
		if best == nil || t.at < best.at {
			best = t
		}
	}
	return best
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
