package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vitalhub/agentkit/pkg/clock"
	"github.com/vitalhub/agentkit/pkg/kv"
)

// Status is the read-only projection of the current session for UI
// consumption.
type Status struct {
	IsValid       bool          `json:"is_valid"`
	TimeRemaining time.Duration `json:"time_remaining"`
	OfflineMode   bool          `json:"offline_mode"`
	LastActivity  time.Time     `json:"last_activity"`
}

// Manager orchestrates the session lifecycle for one domain namespace. It
// composes the dual-tier store, the clock facility, the activity tracker and
// the renewal negotiator behind a single public API.
//
// All state mutation is serialized behind a mutex, giving the same atomicity
// a single-threaded event loop would: a read-modify-write from one timer
// always completes before another timer's callback observes the state.
type Manager struct {
	cfg     Config
	clk     clock.Clock
	log     *slog.Logger
	durable kv.Tier
	backup  kv.Tier
	client  RenewalClient
	confirm ConfirmFunc

	store      *DualStore
	tracker    *Tracker
	negotiator *Negotiator

	mu             sync.Mutex
	state          State
	record         *Record
	generation     uint64
	warned         bool
	expiredFired   bool
	initialized    bool
	expiryLoop     clock.Handle
	inactivityLoop clock.Handle
	onWarning      func()
	onExpired      func()
}

// New creates a manager for the given namespace configuration. Both storage
// tiers default to in-memory; production callers wire a durable tier.
func New(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:   cfg,
		state: StateUninitialized,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.clk == nil {
		m.clk = clock.New()
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.durable == nil {
		m.durable = kv.NewMemoryTier()
	}
	if m.backup == nil {
		m.backup = kv.NewMemoryTier()
	}

	m.store = NewDualStore(m.durable, m.backup, cfg, m.log)
	m.negotiator = NewNegotiator(m.client, m.confirm, m.clk, cfg, m.log)
	m.tracker = NewTracker(m.clk, cfg.ActivityDebounce)

	return m
}

// Init starts the expiry-check and inactivity loops and registers the
// activity listener. Both callbacks may be nil. Calling Init twice is an
// error; all mutation methods called before Init fail with ErrNotInitialized.
func (m *Manager) Init(onWarning, onExpired func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return ErrAlreadyInitialized
	}

	m.onWarning = onWarning
	m.onExpired = onExpired
	m.initialized = true
	m.startLoopsLocked()
	m.tracker.OnActivity(m.recordActivity)

	return nil
}

// CreateSession builds a fresh record for user and persists it through both
// tiers, replacing any prior session. An empty token creates the session in
// offline mode.
func (m *Manager) CreateSession(ctx context.Context, user json.RawMessage, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}

	rec := NewRecord(user, token, m.clk.Now(), m.cfg.SessionDuration)
	if err := m.writeLocked(ctx, rec); err != nil {
		return err
	}

	m.record = rec
	m.warned = false
	m.expiredFired = false
	m.generation++
	m.transitionLocked(recordState(rec))
	m.startLoopsLocked()

	return nil
}

// RestoreSession reads the persisted record. A lapsed session is a
// recoverable condition: it triggers the renewal negotiator rather than
// failing outright, and only a declined or impossible renewal reports the
// session as absent.
func (m *Manager) RestoreSession(ctx context.Context) (*Record, error) {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return nil, ErrNotInitialized
	}

	rec, err := m.store.Read(ctx)
	if err != nil {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	now := m.clk.Now()
	if !rec.IsExpired(now) && !rec.IsInactive(now, m.cfg.InactivityTimeout) {
		m.record = rec
		m.warned = false
		m.expiredFired = false
		m.transitionLocked(recordState(rec))
		m.startLoopsLocked()
		m.mu.Unlock()
		return rec.Clone(), nil
	}

	m.transitionLocked(StateExpired)
	m.transitionLocked(StateRenewing)
	gen := m.generation
	m.mu.Unlock()

	renewed, outcome := m.negotiator.Attempt(ctx, rec)
	if outcome == OutcomeDeclined {
		m.concludeDeclined(ctx, gen)
		return nil, ErrRenewalDeclined
	}

	m.applyRenewal(ctx, gen, renewed)
	return renewed.Clone(), nil
}

// UpdateSession replaces the user payload in place without resetting expiry.
func (m *Manager) UpdateSession(ctx context.Context, user json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	if m.record == nil {
		return ErrSessionNotFound
	}

	updated := m.record.Clone()
	updated.User = user
	if err := m.writeLocked(ctx, updated); err != nil {
		return err
	}

	m.record = updated
	return nil
}

// RefreshSession proactively extends the session. It follows the network
// renewal path but never prompts: on failure it silently extends in offline
// mode.
func (m *Manager) RefreshSession(ctx context.Context) error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return ErrNotInitialized
	}
	if m.record == nil {
		m.mu.Unlock()
		return ErrSessionNotFound
	}

	gen := m.generation
	rec := m.record.Clone()
	m.mu.Unlock()

	renewed, _ := m.negotiator.Extend(ctx, rec)
	m.applyRenewal(ctx, gen, renewed)
	return nil
}

// IsSessionValid reports whether the last-read record is live right now.
// It is synchronous and performs no I/O.
func (m *Manager) IsSessionValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clk.Now()
	return m.record != nil &&
		!m.record.IsExpired(now) &&
		!m.record.IsInactive(now, m.cfg.InactivityTimeout)
}

// ClearSession signs the session out: both tiers and every cached domain
// collection are purged, both timers are cancelled and onExpired fires.
func (m *Manager) ClearSession(ctx context.Context) error {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return ErrNotInitialized
	}

	m.clearLocked(ctx)
	fire := m.expireOnceLocked()
	m.mu.Unlock()

	if fire != nil {
		fire()
	}
	return nil
}

// Status returns the read-only session projection.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record == nil {
		return Status{}
	}

	now := m.clk.Now()
	valid := !m.record.IsExpired(now) && !m.record.IsInactive(now, m.cfg.InactivityTimeout)
	remaining := time.Duration(0)
	if valid {
		remaining = m.record.TimeRemaining(now)
	}

	return Status{
		IsValid:       valid,
		TimeRemaining: remaining,
		OfflineMode:   m.record.OfflineMode,
		LastActivity:  m.record.LastActivityAt,
	}
}

// NotifyActivity reports one raw user interaction signal. The host adapts
// its environment's events (pointer, key, scroll, touch) to this call.
func (m *Manager) NotifyActivity() {
	m.tracker.Pulse()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Shutdown stops the timers and the activity tracker without purging
// storage. With AutoSave enabled it force-writes the backup tier first so a
// later RestoreSession can recover the session. An in-flight renewal is left
// to complete; its result is ignored.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.record != nil && m.cfg.AutoSave {
		if err := m.store.WriteBackup(ctx, m.record); err != nil {
			m.log.WarnContext(ctx, "auto-save to backup tier failed", "error", err)
		}
	}
	m.stopLoopsLocked()
	m.generation++
	m.mu.Unlock()

	m.tracker.Close()
	return nil
}

// recordActivity is the tracker callback: it advances LastActivityAt and
// persists it best-effort, swallowing storage failures.
func (m *Manager) recordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record == nil || m.state == StateCleared {
		return
	}

	m.record.Touch(m.clk.Now())
	if err := m.writeLocked(context.Background(), m.record); err != nil {
		m.log.Debug("activity persistence failed", "error", err)
	}
}

// checkExpiry is the expiry-check loop body. It raises the Warning state
// below the refresh threshold and hands an expired record to the negotiator.
func (m *Manager) checkExpiry() {
	m.mu.Lock()
	if m.record == nil || m.state == StateCleared {
		m.mu.Unlock()
		return
	}

	now := m.clk.Now()
	rec := m.record

	if rec.IsExpired(now) {
		m.transitionLocked(StateExpired)
		m.transitionLocked(StateRenewing)
		gen := m.generation
		expired := rec.Clone()
		m.mu.Unlock()

		renewed, outcome := m.negotiator.Attempt(context.Background(), expired)
		if outcome == OutcomeDeclined {
			m.concludeDeclined(context.Background(), gen)
			return
		}
		m.applyRenewal(context.Background(), gen, renewed)
		return
	}

	if rec.TimeRemaining(now) <= m.cfg.RefreshThreshold && !m.warned {
		m.warned = true
		m.transitionLocked(StateWarning)
		cb := m.onWarning
		m.mu.Unlock()
		if cb != nil {
			cb()
		}
		return
	}

	m.mu.Unlock()
}

// checkInactivity is the inactivity loop body. Inactivity alone forces
// expiry, independent of ExpiresAt; the session is cleared without a prompt.
func (m *Manager) checkInactivity() {
	m.mu.Lock()
	if m.record == nil || m.state == StateCleared {
		m.mu.Unlock()
		return
	}

	if !m.record.IsInactive(m.clk.Now(), m.cfg.InactivityTimeout) {
		m.mu.Unlock()
		return
	}

	m.transitionLocked(StateExpired)
	m.clearLocked(context.Background())
	fire := m.expireOnceLocked()
	m.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// applyRenewal installs a successful renewal outcome unless the
// session was cleared while the negotiation was in flight.
func (m *Manager) applyRenewal(ctx context.Context, gen uint64, renewed *Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen || renewed == nil {
		return
	}

	m.record = renewed
	m.warned = false
	m.expiredFired = false
	m.transitionLocked(recordState(renewed))
	m.startLoopsLocked()

	if err := m.writeLocked(ctx, renewed); err != nil {
		m.log.WarnContext(ctx, "persisting renewed session failed", "error", err)
	}
}

// concludeDeclined terminates the session after a declined renewal, firing
// onExpired exactly once.
func (m *Manager) concludeDeclined(ctx context.Context, gen uint64) {
	m.mu.Lock()
	var fire func()
	if m.generation == gen {
		m.clearLocked(ctx)
		fire = m.expireOnceLocked()
	}
	m.mu.Unlock()

	if fire != nil {
		fire()
	}
}

func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.WarnContext(ctx, "session purge incomplete", "error", err)
	}
	m.record = nil
	m.generation++
	m.stopLoopsLocked()
	m.transitionLocked(StateCleared)
}

// expireOnceLocked returns the onExpired callback the first time the current
// session terminates, nil afterwards.
func (m *Manager) expireOnceLocked() func() {
	if m.expiredFired {
		return nil
	}
	m.expiredFired = true
	return m.onExpired
}

// writeLocked persists through the dual store, downgrading a durable-tier
// soft failure to a log entry.
func (m *Manager) writeLocked(ctx context.Context, rec *Record) error {
	err := m.store.Write(ctx, rec)
	if errors.Is(err, ErrDurableTierFailed) {
		m.log.WarnContext(ctx, "durable tier unavailable, session held in backup tier", "error", err)
		return nil
	}
	return err
}

func (m *Manager) transitionLocked(to State) {
	if !canTransition(m.state, to) {
		m.log.Error("illegal lifecycle transition", "from", string(m.state), "to", string(to))
	}
	m.state = to
}

func (m *Manager) startLoopsLocked() {
	if !m.initialized {
		return
	}
	if m.expiryLoop == nil {
		m.expiryLoop = m.clk.Every(m.cfg.CheckInterval, m.checkExpiry)
	}
	if m.inactivityLoop == nil {
		m.inactivityLoop = m.clk.Every(m.cfg.CheckInterval, m.checkInactivity)
	}
}

func (m *Manager) stopLoopsLocked() {
	if m.expiryLoop != nil {
		m.expiryLoop.Stop()
		m.expiryLoop = nil
	}
	if m.inactivityLoop != nil {
		m.inactivityLoop.Stop()
		m.inactivityLoop = nil
	}
}

// recordState maps a record to its live lifecycle state.
func recordState(rec *Record) State {
	if rec.OfflineMode {
		return StateOffline
	}
	return StateActive
}
