package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vitalhub/agentkit/pkg/clock"
)

// Outcome is the terminal result of a renewal negotiation.
type Outcome string

const (
	// OutcomeRenewed means the server issued a fresh credential.
	OutcomeRenewed Outcome = "renewed"
	// OutcomeOffline means the user accepted an offline extension.
	OutcomeOffline Outcome = "offline"
	// OutcomeDeclined means the user declined, or no renewal path existed.
	OutcomeDeclined Outcome = "declined"
)

// ConfirmFunc asks the user to accept or decline an offline renewal. It is
// host-owned presentation; the negotiator consumes only the boolean outcome.
type ConfirmFunc func(ctx context.Context) (bool, error)

// Negotiator extends an expired record, trying the network first and falling
// back to a user-confirmed offline extension. Renewal never hard-fails on
// network issues. Concurrent attempts coalesce: while one negotiation is in
// flight, later callers wait for its result, so at most one confirmation
// prompt is shown at a time.
type Negotiator struct {
	client   RenewalClient
	confirm  ConfirmFunc
	clk      clock.Clock
	duration time.Duration
	timeout  time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	inflight *pendingAttempt
}

type pendingAttempt struct {
	done    chan struct{}
	record  *Record
	outcome Outcome
}

// NewNegotiator builds a negotiator. client may be nil when no network path
// exists; confirm may be nil when the host cannot prompt, in which case a
// failed network renewal is declined.
func NewNegotiator(client RenewalClient, confirm ConfirmFunc, clk clock.Clock, cfg Config, log *slog.Logger) *Negotiator {
	if log == nil {
		log = slog.Default()
	}
	return &Negotiator{
		client:   client,
		confirm:  confirm,
		clk:      clk,
		duration: cfg.SessionDuration,
		timeout:  cfg.RenewalTimeout,
		log:      log,
	}
}

// Attempt negotiates a renewal of rec. The returned record is a fresh copy
// with extended expiry (nil when declined). Two attempts racing share one
// negotiation and one prompt.
func (n *Negotiator) Attempt(ctx context.Context, rec *Record) (*Record, Outcome) {
	n.mu.Lock()
	if p := n.inflight; p != nil {
		n.mu.Unlock()
		select {
		case <-p.done:
			return p.record.Clone(), p.outcome
		case <-ctx.Done():
			return nil, OutcomeDeclined
		}
	}

	p := &pendingAttempt{done: make(chan struct{})}
	n.inflight = p
	n.mu.Unlock()

	p.record, p.outcome = n.negotiate(ctx, rec)

	n.mu.Lock()
	n.inflight = nil
	n.mu.Unlock()
	close(p.done)

	return p.record.Clone(), p.outcome
}

// Extend renews rec without ever prompting: a failed or unavailable network
// exchange silently extends in offline mode. Used by the proactive refresh
// path.
func (n *Negotiator) Extend(ctx context.Context, rec *Record) (*Record, Outcome) {
	if renewed, ok := n.tryNetwork(ctx, rec); ok {
		return renewed, OutcomeRenewed
	}
	return n.extendOffline(rec), OutcomeOffline
}

func (n *Negotiator) negotiate(ctx context.Context, rec *Record) (*Record, Outcome) {
	if renewed, ok := n.tryNetwork(ctx, rec); ok {
		return renewed, OutcomeRenewed
	}

	if n.confirm == nil {
		return nil, OutcomeDeclined
	}

	accepted, err := n.confirm(ctx)
	if err != nil || !accepted {
		return nil, OutcomeDeclined
	}

	// An explicit trust decision taken by the user, not a security bypass.
	return n.extendOffline(rec), OutcomeOffline
}

// tryNetwork issues the refresh call with a bounded timeout. Any failure
// (timeout, non-2xx, transport error) reports false so the caller falls
// through to the offline path.
func (n *Negotiator) tryNetwork(ctx context.Context, rec *Record) (*Record, bool) {
	if n.client == nil || rec == nil || rec.Token == "" {
		return nil, false
	}

	cctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	resp, err := n.client.Refresh(cctx, rec.Token)
	if err != nil {
		n.log.DebugContext(ctx, "network renewal failed, falling back", "error", err)
		return nil, false
	}

	now := n.clk.Now()
	renewed := rec.Clone()
	renewed.Token = resp.Token
	renewed.ExpiresAt = now.Add(n.duration)
	renewed.OfflineMode = false
	renewed.Touch(now)
	return renewed, true
}

func (n *Negotiator) extendOffline(rec *Record) *Record {
	now := n.clk.Now()
	renewed := rec.Clone()
	renewed.ExpiresAt = now.Add(n.duration)
	renewed.OfflineMode = true
	renewed.Touch(now)
	return renewed
}
