// Package storage is a Pebble-backed key-value store that receives
// materialized genesis state.
package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// ErrNotEmpty is returned when genesis is written over existing state.
var ErrNotEmpty = errors.New("storage is not empty")

// KeyValue represents a key-value pair for batch operations.
type KeyValue struct {
	Key   []byte // Key is the key to store
	Value []byte // Value is the value to store
}

// Storage provides a key-value store backed by Pebble.
// Genesis is written once as a single synced batch, so no background WAL
// syncing is needed.
type Storage struct {
	db *pebble.DB // db is the underlying Pebble database
}

// Open opens or creates a store at the given path.
func Open(path string) (*Storage, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(8 << 20), // 8 MB cache
		MemTableSize: 4 << 20,                  // 4 MB memtable
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s:\n%w", path, err)
	}

	return &Storage{db: db}, nil
}

// Get retrieves the value for the given key.
// Returns nil if the key does not exist.
func (s *Storage) Get(key []byte) ([]byte, error) {
	value, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// Copy the value since it's invalid after closer.Close()
	result := make([]byte, len(value))
	copy(result, value)

	return result, nil
}

// Empty reports whether the store holds no keys.
func (s *Storage) Empty() (bool, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return false, err
	}
	defer iter.Close()

	return !iter.First(), iter.Error()
}

// WriteGenesis atomically writes pairs into an empty store and syncs the WAL.
// Either all pairs are written or none.
func (s *Storage) WriteGenesis(pairs []KeyValue) error {
	empty, err := s.Empty()
	if err != nil {
		return err
	}

	if !empty {
		return ErrNotEmpty
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, kv := range pairs {
		if err := batch.Set(kv.Key, kv.Value, nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.Sync)
}

// Iterate calls fn for each key-value pair in lexicographic key order.
// If fn returns an error, iteration stops and the error is returned.
func (s *Storage) Iterate(fn func(key, value []byte) error) error {
	return s.IteratePrefix(nil, fn)
}

// IteratePrefix calls fn for each key-value pair with the given prefix.
// Uses Pebble's iterator bounds for efficient prefix scanning.
func (s *Storage) IteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	opts := &pebble.IterOptions{}
	if len(prefix) > 0 {
		opts.LowerBound = prefix
		opts.UpperBound = prefixUpperBound(prefix)
	}

	iter, err := s.db.NewIter(opts)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		if err := fn(iter.Key(), value); err != nil {
			return err
		}
	}

	return iter.Error()
}

// prefixUpperBound computes the exclusive upper bound for a prefix scan.
// Increments the last byte; returns nil if prefix is all 0xFF (full range).
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)

	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}

	return nil
}

// Close flushes and closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}
