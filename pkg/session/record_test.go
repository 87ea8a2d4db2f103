package session_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalhub/agentkit/pkg/session"
)

func TestRecord_ExpiryBoundaries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	rec := session.NewRecord(nil, "tok", now, time.Hour)

	assert.False(t, rec.IsExpired(now))
	assert.False(t, rec.IsExpired(now.Add(time.Hour-time.Nanosecond)))
	// Exactly equal timestamps count as expired.
	assert.True(t, rec.IsExpired(now.Add(time.Hour)))
	assert.True(t, rec.IsExpired(now.Add(2*time.Hour)))
}

func TestRecord_InactivityBoundaries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	rec := session.NewRecord(nil, "tok", now, 24*time.Hour)

	assert.False(t, rec.IsInactive(now.Add(time.Hour-time.Nanosecond), time.Hour))
	// An exactly equal gap counts as inactive.
	assert.True(t, rec.IsInactive(now.Add(time.Hour), time.Hour))
}

func TestRecord_TouchIsMonotonic(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	rec := session.NewRecord(nil, "", now, time.Hour)

	rec.Touch(now.Add(time.Minute))
	assert.Equal(t, now.Add(time.Minute), rec.LastActivityAt)

	// Never moves backwards.
	rec.Touch(now)
	assert.Equal(t, now.Add(time.Minute), rec.LastActivityAt)
}

func TestRecord_TimeRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	rec := session.NewRecord(nil, "", now, time.Hour)

	assert.Equal(t, time.Hour, rec.TimeRemaining(now))
	assert.Equal(t, 30*time.Minute, rec.TimeRemaining(now.Add(30*time.Minute)))
	assert.Equal(t, time.Duration(0), rec.TimeRemaining(now.Add(2*time.Hour)))
}

func TestRecord_OfflineModeFromToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.True(t, session.NewRecord(nil, "", now, time.Hour).OfflineMode)
	assert.False(t, session.NewRecord(nil, "tok", now, time.Hour).OfflineMode)
}

func TestRecord_Clone(t *testing.T) {
	t.Parallel()

	rec := session.NewRecord(json.RawMessage(`{"name":"Ana"}`), "tok", time.Now(), time.Hour)
	clone := rec.Clone()

	require.Equal(t, rec, clone)

	clone.User[2] = 'x'
	assert.Equal(t, json.RawMessage(`{"name":"Ana"}`), rec.User)

	var nilRec *session.Record
	assert.Nil(t, nilRec.Clone())
}
