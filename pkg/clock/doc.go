// Package clock provides a small time and timer abstraction used by the
// session lifecycle manager. It wraps github.com/benbjohnson/clock so that
// production code runs against the wall clock while tests inject a mock
// clock and advance it manually.
//
// # Usage
//
//	c := clock.New()
//	h := c.Every(time.Minute, checkExpiry)
//	defer h.Stop()
//
// In tests:
//
//	c, mock := clock.NewMock()
//	mgr := session.New(session.WithClock(c))
//	mock.Add(24 * time.Hour) // fast-forward past expiry
package clock
