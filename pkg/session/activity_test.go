package session_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalhub/agentkit/pkg/clock"
	"github.com/vitalhub/agentkit/pkg/session"
)

func TestTracker_DebouncesBursts(t *testing.T) {
	t.Parallel()

	clk, mock := clock.NewMock()
	tracker := session.NewTracker(clk, 30*time.Second)
	t.Cleanup(tracker.Close)

	var fired atomic.Int64
	tracker.OnActivity(func() { fired.Add(1) })

	// A burst of raw signals collapses into one event.
	for n := 0; n < 10; n++ {
		tracker.Pulse()
	}

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, time.Millisecond)

	// Outside the debounce window a new burst fires again.
	mock.Add(time.Minute)
	for n := 0; n < 5; n++ {
		tracker.Pulse()
	}

	require.Eventually(t, func() bool {
		return fired.Load() == 2
	}, time.Second, time.Millisecond)
}

func TestTracker_CallbackNotReenteredSynchronously(t *testing.T) {
	t.Parallel()

	clk, _ := clock.NewMock()
	tracker := session.NewTracker(clk, time.Second)
	t.Cleanup(tracker.Close)

	entered := make(chan struct{})
	tracker.OnActivity(func() {
		// Pulsing from inside the callback must not recurse.
		tracker.Pulse()
		select {
		case entered <- struct{}{}:
		default:
		}
	})

	tracker.Pulse()

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
}

func TestTracker_PulseNeverBlocks(t *testing.T) {
	t.Parallel()

	clk, mock := clock.NewMock()
	tracker := session.NewTracker(clk, time.Nanosecond)
	t.Cleanup(tracker.Close)

	// No callback registered: pulses must still be non-blocking even once
	// the internal queue is full.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := 0; n < 500; n++ {
			tracker.Pulse()
			mock.Add(time.Microsecond)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pulse blocked")
	}
}

func TestTracker_CloseStopsDispatch(t *testing.T) {
	t.Parallel()

	clk, mock := clock.NewMock()
	tracker := session.NewTracker(clk, time.Millisecond)

	var fired atomic.Int64
	tracker.OnActivity(func() { fired.Add(1) })

	tracker.Close()
	tracker.Close() // idempotent

	mock.Add(time.Second)
	tracker.Pulse()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), fired.Load())
}
