// Package clock provides an injectable uptime clock.
//
// Signal timestamps are milliseconds since service start, not wall-clock
// time: the target device has no RTC, so uptime is the only timestamp
// source that is monotonic within a boot. Values reset on restart, which
// means age computations (eviction ordering, old-signal purge) are
// meaningful only within the current boot. Tests inject Fake to control
// time deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock reports device uptime in milliseconds.
type Clock interface {
	Now() int64
}

// Uptime is the production clock, anchored at process start.
type Uptime struct {
	start time.Time
}

// NewUptime returns a clock anchored at the moment of the call.
func NewUptime() *Uptime {
	return &Uptime{start: time.Now()}
}

// Now returns milliseconds elapsed since the clock was created.
func (u *Uptime) Now() int64 {
	return time.Since(u.start).Milliseconds()
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu sync.Mutex
	ms int64
}

// NewFake returns a fake clock starting at the given uptime.
func NewFake(startMs int64) *Fake {
	return &Fake{ms: startMs}
}

// Now returns the current fake uptime.
func (f *Fake) Now() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ms
}

// Advance moves the fake uptime forward.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ms += d.Milliseconds()
}
