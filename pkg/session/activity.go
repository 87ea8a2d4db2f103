package session

import (
	"sync"
	"time"

	"github.com/vitalhub/agentkit/pkg/clock"
)

// Tracker turns raw interaction signals reported by the host (pointer
// movement, key press, scroll, touch) into debounced activity events. The
// registered callback fires at most once per debounce window and is always
// dispatched from the tracker's own worker goroutine, so a Pulse caller is
// never re-entered synchronously.
type Tracker struct {
	clk      clock.Clock
	debounce time.Duration

	mu        sync.Mutex
	lastPulse time.Time
	callback  func()

	pulses chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewTracker creates a tracker using clk for debounce bookkeeping.
func NewTracker(clk clock.Clock, debounce time.Duration) *Tracker {
	t := &Tracker{
		clk:      clk,
		debounce: debounce,
		pulses:   make(chan struct{}, 64),
		done:     make(chan struct{}),
	}
	go t.worker()
	return t
}

// OnActivity registers the callback invoked on each debounced activity burst.
// Registering replaces any previous callback.
func (t *Tracker) OnActivity(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = fn
}

// Pulse reports one raw interaction signal. Signals inside the debounce
// window are dropped; the rest are queued for asynchronous dispatch. Pulse
// never blocks.
func (t *Tracker) Pulse() {
	t.mu.Lock()
	now := t.clk.Now()
	if !t.lastPulse.IsZero() && now.Sub(t.lastPulse) < t.debounce {
		t.mu.Unlock()
		return
	}
	t.lastPulse = now
	t.mu.Unlock()

	select {
	case t.pulses <- struct{}{}:
	default:
		// Queue full: the pending events already represent the burst.
	}
}

// Close stops the worker goroutine. Pending pulses are dropped.
func (t *Tracker) Close() {
	t.once.Do(func() { close(t.done) })
}

func (t *Tracker) worker() {
	for {
		select {
		case <-t.pulses:
			t.mu.Lock()
			fn := t.callback
			t.mu.Unlock()
			if fn != nil {
				fn()
			}
		case <-t.done:
			return
		}
	}
}
