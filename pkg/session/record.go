package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is the unit of persisted session state. The User payload is owned by
// the host application and only round-tripped by this package.
type Record struct {
	ID             uuid.UUID       `json:"id"`
	User           json.RawMessage `json:"user,omitempty"`
	Token          string          `json:"token,omitempty"`
	ExpiresAt      time.Time       `json:"expires_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	CreatedAt      time.Time       `json:"created_at"`
	OfflineMode    bool            `json:"offline_mode,omitempty"`
}

// NewRecord creates a fresh record expiring ttl from now. An empty token
// marks the session as created without network access.
func NewRecord(user json.RawMessage, token string, now time.Time, ttl time.Duration) *Record {
	return &Record{
		ID:             uuid.New(),
		User:           user,
		Token:          token,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
		OfflineMode:    token == "",
	}
}

// IsExpired reports whether the record is invalid at instant now.
// A timestamp exactly equal to ExpiresAt counts as expired.
func (r *Record) IsExpired(now time.Time) bool {
	return r == nil || !now.Before(r.ExpiresAt)
}

// IsInactive reports whether the gap since the last detected activity has
// reached timeout. An exactly equal gap counts as inactive.
func (r *Record) IsInactive(now time.Time, timeout time.Duration) bool {
	return r == nil || now.Sub(r.LastActivityAt) >= timeout
}

// TimeRemaining returns the time left until expiry, never negative.
func (r *Record) TimeRemaining(now time.Time) time.Duration {
	if r == nil {
		return 0
	}
	remaining := r.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Touch advances LastActivityAt to now. The timestamp never moves backwards.
func (r *Record) Touch(now time.Time) {
	if r == nil || now.Before(r.LastActivityAt) {
		return
	}
	r.LastActivityAt = now
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.User != nil {
		out.User = make(json.RawMessage, len(r.User))
		copy(out.User, r.User)
	}
	return &out
}
