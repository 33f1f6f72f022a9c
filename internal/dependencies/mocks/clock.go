package mocks

import (
	"time"

	"github.com/lucasmnd/duodle/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Scheduled
// callbacks never fire on their own; tests trigger them with Fire or
// FireAll so timer races can be exercised deterministically.
type MockClock struct {
	CurrentTime time.Time

	timers []*MockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// AfterFunc records the callback without scheduling anything
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &MockTimer{Duration: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}

// Timers returns all timers created so far, including fired and stopped ones
func (c *MockClock) Timers() []*MockTimer {
	return c.timers
}

// Fire runs the most recently scheduled live timer, if any
func (c *MockClock) Fire() {
	for i := len(c.timers) - 1; i >= 0; i-- {
		if c.timers[i].Fire() {
			return
		}
	}
}

// FireAll runs every live timer in scheduling order
func (c *MockClock) FireAll() {
	for _, t := range c.timers {
		t.Fire()
	}
}

// MockTimer is a manually fired timer
type MockTimer struct {
	Duration time.Duration

	fn      func()
	fired   bool
	stopped bool
}

var _ clock.Timer = (*MockTimer)(nil)

// Stop cancels the timer, reporting whether it was still pending
func (t *MockTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Fire runs the callback if the timer is still pending, reporting whether
// it ran
func (t *MockTimer) Fire() bool {
	if t.fired || t.stopped {
		return false
	}
	t.fired = true
	t.fn()
	return true
}

// Stopped reports whether the timer was cancelled before firing
func (t *MockTimer) Stopped() bool {
	return t.stopped
}

// Fired reports whether the callback ran
func (t *MockTimer) Fired() bool {
	return t.fired
}
