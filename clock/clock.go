package clock

import "time"

// Clock provides time operations that can be substituted in tests. The
// leaderboard's rolling window is evaluated against it at call time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// New creates a new RealClock.
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Fixed implements Clock with a settable instant, for tests.
type Fixed struct {
	Instant time.Time
}

// NewFixed creates a Fixed clock pinned to t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{Instant: t}
}

// Now returns the pinned instant.
func (c *Fixed) Now() time.Time {
	return c.Instant
}

// Advance moves the pinned instant forward by d.
func (c *Fixed) Advance(d time.Duration) {
	c.Instant = c.Instant.Add(d)
}
