package clock

import (
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
)

// Clock abstracts time observation and timer scheduling so lifecycle logic
// can be driven deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Every invokes fn on its own goroutine once per interval until the
	// returned handle is stopped.
	Every(interval time.Duration, fn func()) Handle

	// After invokes fn once on its own goroutine after delay elapses,
	// unless the returned handle is stopped first.
	After(delay time.Duration, fn func()) Handle
}

// Handle cancels a scheduled callback. Stop is idempotent; a stopped handle
// never fires again.
type Handle interface {
	Stop()
}

// New returns a Clock backed by the system wall clock.
func New() Clock {
	return &facility{inner: bclock.New()}
}

// NewMock returns a Clock backed by a manually advanced mock together with
// the mock itself, for tests that need to move time forward explicitly.
func NewMock() (Clock, *bclock.Mock) {
	m := bclock.NewMock()
	return &facility{inner: m}, m
}

// facility adapts the underlying clock library's Ticker/Timer primitives to
// the callback-based contract the session manager expects.
type facility struct {
	inner bclock.Clock
}

func (f *facility) Now() time.Time {
	return f.inner.Now()
}

func (f *facility) Every(interval time.Duration, fn func()) Handle {
	ticker := f.inner.Ticker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return &handle{stop: func() {
		ticker.Stop()
		close(done)
	}}
}

func (f *facility) After(delay time.Duration, fn func()) Handle {
	timer := f.inner.AfterFunc(delay, fn)
	return &handle{stop: func() { timer.Stop() }}
}

type handle struct {
	once sync.Once
	stop func()
}

func (h *handle) Stop() {
	h.once.Do(h.stop)
}
