// Package clock provides the time source used by stopwatches.
// Code reads the time through Clock so tests can drive it by hand.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source for stopwatches.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock. The returned time carries a monotonic
// reading, so differences between two values are immune to wall-clock jumps.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

var _ Clock = Real{}

// Fake is a manually driven clock for tests. The zero value is not usable;
// create one with NewFake.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a fake clock reading start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d and returns the new time.
func (f *Fake) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

var _ Clock = (*Fake)(nil)
