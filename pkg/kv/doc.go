// Package kv provides the raw key-value storage tiers backing session
// persistence. A Tier stores opaque byte values under string keys; the
// session package layers record encoding and dual-tier semantics on top.
//
// Three implementations ship out of the box:
//
//   - MemoryTier: process-scoped map, used as the backup tier.
//   - BoltTier:   embedded durable storage on bbolt, the default durable tier.
//   - RedisTier:  durable storage shared across processes.
//
// All implementations return ErrKeyNotFound for missing keys so callers can
// distinguish absence from failure with errors.Is.
package kv
