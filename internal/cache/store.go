// Package cache persists merged plugin configuration snapshots keyed by the
// plugin fingerprint.
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/andrei-cloud/plugload/internal/config"
	"github.com/andrei-cloud/plugload/internal/errorcodes"
	"github.com/andrei-cloud/plugload/internal/registry"
)

// Supported cache drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
	DriverS3     = "s3"
)

// ErrNotFound is returned by Fetch when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Snapshot is the merged configuration of every plugin, keyed by plugin name.
type Snapshot = map[string]registry.Config

// Store is a key/value store for configuration snapshots.
type Store interface {
	// Contains reports whether key holds a live snapshot.
	Contains(ctx context.Context, key string) (bool, error)
	// Fetch returns the snapshot stored under key or ErrNotFound.
	Fetch(ctx context.Context, key string) (Snapshot, error)
	// Save stores value under key, replacing any previous snapshot.
	Save(ctx context.Context, key string, value Snapshot) error
	// Clear drops every snapshot held by the store.
	Clear(ctx context.Context) error
	// Close releases the backend.
	Close() error
}

// New builds the store selected by cfg.Driver. fs backs the file driver.
func New(ctx context.Context, cfg config.Cache, fs afero.Fs) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverFile:
		return NewFileStore(fs, cfg.Dir, cfg.TTL), nil
	case DriverMemory:
		return NewMemoryStore(cfg.MaxEntries, cfg.TTL), nil
	case DriverRedis:
		return NewRedisStore(ctx, cfg.RedisURL, DefaultRedisPrefix, cfg.TTL)
	case DriverSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, cfg.TTL)
	case DriverS3:
		return NewS3StoreFromConfig(ctx, cfg.S3)
	default:
		return nil, errorcodes.ErrUnknownDriver.Wrap(fmt.Errorf("%q", cfg.Driver))
	}
}

func init() {
	// Dynamic values nested inside a plugin record.
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(registry.Config{})
	gob.Register(time.Time{})
}

// encode serializes a snapshot with gob, which records the concrete type of
// every value so a fetched snapshot is identical to the one that was saved.
func encode(value Snapshot) ([]byte, error) {
	plain := make(Snapshot, len(value))
	for name, cfg := range value {
		if cfg == nil {
			cfg = registry.Config{}
		}
		plain[name] = cfg
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(plain); err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("encode snapshot: %w", err))
	}

	return buf.Bytes(), nil
}

func decode(key string, data []byte) (Snapshot, error) {
	var doc Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("cache entry %s: %w", key, err))
	}

	out := make(Snapshot, len(doc))
	for name, cfg := range doc {
		if cfg == nil {
			cfg = registry.Config{}
		}
		out[name] = cfg
	}

	return out, nil
}

// validateKey rejects keys that could escape a namespace or directory.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return errorcodes.ErrInvalidCacheKey.Wrap(fmt.Errorf("%q", key))
	}

	return nil
}
