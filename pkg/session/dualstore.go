package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vitalhub/agentkit/pkg/kv"
)

// DualStore persists the session record through two independent tiers: a
// durable one that survives restarts and a backup one scoped to the process
// lifetime. After any successful mutation both tiers hold byte-identical
// serializations.
type DualStore struct {
	durable    kv.Tier
	backup     kv.Tier
	sessionKey string
	backupKey  string
	purgeKeys  []string
	log        *slog.Logger
}

// NewDualStore builds a store for one domain namespace. purgeKeys lists the
// domain-cached collection keys removed from both tiers on Clear.
func NewDualStore(durable, backup kv.Tier, cfg Config, log *slog.Logger) *DualStore {
	if log == nil {
		log = slog.Default()
	}
	return &DualStore{
		durable:    durable,
		backup:     backup,
		sessionKey: cfg.SessionKey(),
		backupKey:  cfg.BackupKey(),
		purgeKeys:  cfg.CachedCollectionKeys,
		log:        log,
	}
}

// Write persists the record to both tiers. A durable-tier failure while the
// backup write succeeded is a soft failure: the returned error matches
// ErrDurableTierFailed and the write still counts as successful. Only a
// failure of both tiers is fatal.
func (s *DualStore) Write(ctx context.Context, r *Record) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}

	backupErr := s.backup.Set(ctx, s.backupKey, data)
	durableErr := s.durable.Set(ctx, s.sessionKey, data)

	switch {
	case durableErr == nil && backupErr == nil:
		return nil
	case durableErr != nil && backupErr != nil:
		return fmt.Errorf("session store: both tiers failed: %w", errors.Join(durableErr, backupErr))
	case durableErr != nil:
		return fmt.Errorf("%w: %w", ErrDurableTierFailed, durableErr)
	default:
		// Durable tier holds the record; the backup miss will be repaired
		// on the next successful write.
		s.log.WarnContext(ctx, "backup tier write failed", "key", s.backupKey, "error", backupErr)
		return nil
	}
}

// Read returns the live record, preferring the durable tier. On a durable
// miss or parse failure it falls back to the backup tier and, if that
// succeeds, repairs the durable tier to match. Corruption in both tiers is
// reported as ErrSessionNotFound, never as a fatal error.
func (s *DualStore) Read(ctx context.Context) (*Record, error) {
	data, err := s.durable.Get(ctx, s.sessionKey)
	if err == nil {
		if r, decodeErr := Decode(data); decodeErr == nil {
			s.syncBackup(ctx, data)
			return r, nil
		}
		s.log.WarnContext(ctx, "durable tier holds malformed record, trying backup", "key", s.sessionKey)
	} else if !errors.Is(err, kv.ErrKeyNotFound) {
		s.log.WarnContext(ctx, "durable tier read failed, trying backup", "key", s.sessionKey, "error", err)
	}

	data, err = s.backup.Get(ctx, s.backupKey)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	r, err := Decode(data)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	// Backup is the surviving source of truth; repair the durable tier.
	if repairErr := s.durable.Set(ctx, s.sessionKey, data); repairErr != nil {
		s.log.WarnContext(ctx, "durable tier repair failed", "key", s.sessionKey, "error", repairErr)
	}

	return r, nil
}

// WriteBackup force-writes only the backup tier, used by the shutdown
// auto-save path.
func (s *DualStore) WriteBackup(ctx context.Context, r *Record) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	return s.backup.Set(ctx, s.backupKey, data)
}

// Clear purges the session keys and every cached collection key from both
// tiers. Individual delete failures are logged and do not stop the purge.
func (s *DualStore) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range append([]string{s.sessionKey, s.backupKey}, s.purgeKeys...) {
		if err := s.durable.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
		if err := s.backup.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		s.log.WarnContext(ctx, "session clear left residual keys", "error", errors.Join(errs...))
		return errors.Join(errs...)
	}
	return nil
}

// syncBackup re-synchronizes the backup tier when it diverged from the
// durable tier; the durable tier always wins.
func (s *DualStore) syncBackup(ctx context.Context, durableData []byte) {
	backupData, err := s.backup.Get(ctx, s.backupKey)
	if err == nil && string(backupData) == string(durableData) {
		return
	}
	if err := s.backup.Set(ctx, s.backupKey, durableData); err != nil {
		s.log.WarnContext(ctx, "backup tier sync failed", "key", s.backupKey, "error", err)
	}
}
