package kv

import (
	"context"
	"errors"

	bolt "go.etcd.io/bbolt"
)

var errBoltKeyNotFound = errors.New("bolt: key not found")

// BoltTier implements Tier on an embedded bbolt database. It is the default
// durable tier: values survive process restarts without requiring any
// external service.
type BoltTier struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltTier opens (or creates) the database file at path and ensures the
// bucket exists. The caller owns the returned tier and must Close it.
func NewBoltTier(path, bucket string) (*BoltTier, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}

	name := []byte(bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltTier{db: db, bucket: name}, nil
}

// Get returns the value stored under key.
func (b *BoltTier) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(b.bucket).Get([]byte(key))
		if value == nil {
			return errBoltKeyNotFound
		}
		// Value is only valid inside the transaction, copy it out.
		out = make([]byte, len(value))
		copy(out, value)
		return nil
	})
	if errors.Is(err, errBoltKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores value under key.
func (b *BoltTier) Set(ctx context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), value)
	})
}

// Delete removes key.
func (b *BoltTier) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
}

// Close releases the underlying database file.
func (b *BoltTier) Close() error {
	return b.db.Close()
}
