package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisTier implements Tier on a Redis client, for deployments where the
// durable tier must be shared across processes or hosts. Keys are stored
// verbatim; namespacing is the caller's concern.
type RedisTier struct {
	client *redis.Client
}

// NewRedisTier wraps an already-connected Redis client.
func NewRedisTier(client *redis.Client) *RedisTier {
	return &RedisTier{client: client}
}

// Get returns the value stored under key.
func (r *RedisTier) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value under key without expiration; session lifetime is enforced
// by the record's own expiry, not by the store.
func (r *RedisTier) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete removes key.
func (r *RedisTier) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
