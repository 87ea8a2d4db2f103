package session

import "time"

// Config holds session lifecycle configuration for one domain namespace.
// It is immutable after the manager is initialized.
type Config struct {
	// Namespace scopes the storage keys, one per agent domain
	// (e.g. "diet", "fitness", "mental").
	Namespace string `env:"AGENT_NAMESPACE" envDefault:"diet"`

	// SessionDuration is the total lifetime from creation or renewal.
	SessionDuration time.Duration `env:"AGENT_SESSION_DURATION" envDefault:"24h"`

	// RefreshThreshold is the remaining-time boundary below which the
	// session enters the Warning state.
	RefreshThreshold time.Duration `env:"AGENT_REFRESH_THRESHOLD" envDefault:"1h"`

	// InactivityTimeout is the maximum allowed gap since the last detected
	// activity before forced expiry, independent of SessionDuration.
	InactivityTimeout time.Duration `env:"AGENT_INACTIVITY_TIMEOUT" envDefault:"1h"`

	// CheckInterval is the polling interval of the expiry and inactivity loops.
	CheckInterval time.Duration `env:"AGENT_CHECK_INTERVAL" envDefault:"1m"`

	// ActivityDebounce bounds how often an activity burst is persisted.
	ActivityDebounce time.Duration `env:"AGENT_ACTIVITY_DEBOUNCE" envDefault:"30s"`

	// RenewalTimeout bounds the renewal network call.
	RenewalTimeout time.Duration `env:"AGENT_RENEWAL_TIMEOUT" envDefault:"10s"`

	// AutoSave force-writes the backup tier on shutdown.
	AutoSave bool `env:"AGENT_AUTO_SAVE" envDefault:"true"`

	// CachedCollectionKeys lists domain-cached collection keys (history,
	// logs) purged on ClearSession so a subsequent user never sees stale data.
	CachedCollectionKeys []string `env:"AGENT_CACHED_COLLECTION_KEYS" envSeparator:","`
}

// DefaultConfig returns the defaults used by all domain agents.
func DefaultConfig() Config {
	return Config{
		Namespace:         "diet",
		SessionDuration:   24 * time.Hour,
		RefreshThreshold:  time.Hour,
		InactivityTimeout: time.Hour,
		CheckInterval:     time.Minute,
		ActivityDebounce:  30 * time.Second,
		RenewalTimeout:    10 * time.Second,
		AutoSave:          true,
	}
}

// SessionKey returns the durable-tier storage key for this namespace.
func (c Config) SessionKey() string {
	return c.Namespace + "AgentSession"
}

// BackupKey returns the backup-tier storage key for this namespace.
func (c Config) BackupKey() string {
	return c.Namespace + "AgentSessionBackup"
}
