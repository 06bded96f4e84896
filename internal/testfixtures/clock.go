package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source so service tests can assert on
// exact created/updated stamps.
type Clock struct {
	mu      sync.Mutex
	instant time.Time
}

// NewClock returns a clock frozen at start, or at ReferenceTime when start is
// the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{instant: start}
}

// Current reports the frozen instant.
func (c *Clock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instant
}

// Advance moves the clock forward and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instant = c.instant.Add(d)
	return c.instant
}

// NowFunc adapts the clock to the `func() time.Time` dependency the services
// take. A nil clock falls back to the wall clock.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Current
}
