package session

import (
	"log/slog"

	"github.com/vitalhub/agentkit/pkg/clock"
	"github.com/vitalhub/agentkit/pkg/kv"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithClock injects the time source. Tests pass clock.NewMock to drive the
// lifecycle deterministically.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) {
		m.clk = clk
	}
}

// WithLogger sets the logger used for soft-failure reporting.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithDurableTier sets the durable storage tier (bolt, redis, ...).
// Defaults to an in-memory tier.
func WithDurableTier(tier kv.Tier) Option {
	return func(m *Manager) {
		m.durable = tier
	}
}

// WithBackupTier sets the backup storage tier. Defaults to an in-memory tier.
func WithBackupTier(tier kv.Tier) Option {
	return func(m *Manager) {
		m.backup = tier
	}
}

// WithRenewalClient sets the network client used for session renewal.
// Without one, every renewal takes the offline path.
func WithRenewalClient(client RenewalClient) Option {
	return func(m *Manager) {
		m.client = client
	}
}

// WithConfirmFunc sets the host-owned accept/decline prompt shown before an
// offline renewal. Without one, a failed network renewal is declined.
func WithConfirmFunc(confirm ConfirmFunc) Option {
	return func(m *Manager) {
		m.confirm = confirm
	}
}
