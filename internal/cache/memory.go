package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMaxEntries = 128

// MemoryStore keeps encoded snapshots in an in-process LRU with optional TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryStore creates a memory store. A non-positive ttl disables expiry.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl < 0 {
		ttl = 0
	}

	return &MemoryStore{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

// Contains implements Store.
func (s *MemoryStore) Contains(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, ok := s.lru.Peek(key)

	return ok, nil
}

// Fetch implements Store.
func (s *MemoryStore) Fetch(_ context.Context, key string) (Snapshot, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, ok := s.lru.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	return decode(key, data)
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, key string, value Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := encode(value)
	if err != nil {
		return err
	}
	s.lru.Add(key, data)

	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(context.Context) error {
	s.lru.Purge()

	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.lru.Purge()

	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}
