// Package clock provides the time source used for merge window decisions.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a function to the Clock interface.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// System is the wall clock.
var System Clock = Func(time.Now)

// Monotonic wraps a clock so that Now never goes backwards, even when the
// underlying wall clock is stepped back.
type Monotonic struct {
	mu     sync.Mutex
	source Clock
	latest time.Time
}

// NewMonotonic returns a Monotonic clock over source. A nil source means
// System.
func NewMonotonic(source Clock) *Monotonic {
	if source == nil {
		source = System
	}
	return &Monotonic{source: source}
}

// Now returns the later of the source time and the last returned time.
func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.source.Now()
	if now.After(m.latest) {
		m.latest = now
	}
	return m.latest
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set moves the clock to t, which may be in the past.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
