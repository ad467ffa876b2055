package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/andrei-cloud/plugload/internal/errorcodes"
)

// SQLiteStore keeps encoded snapshots as blobs in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string, ttl time.Duration) (*SQLiteStore, error) {
	if path == "" {
		path = filepath.Join("cache", "plugins.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("create dirs: %w", err))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("open sqlite: %w", err))
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS plugin_cache (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()

		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("create plugin_cache table: %w", err))
	}

	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) live(createdAt int64) bool {
	return s.ttl <= 0 || s.now().Sub(time.Unix(0, createdAt)) <= s.ttl
}

// Contains implements Store.
func (s *SQLiteStore) Contains(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM plugin_cache WHERE key = ?`, key,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("select plugin_cache: %w", err))
	}

	return s.live(createdAt), nil
}

// Fetch implements Store.
func (s *SQLiteStore) Fetch(ctx context.Context, key string) (Snapshot, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var (
		payload   []byte
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM plugin_cache WHERE key = ?`, key,
	).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("select plugin_cache: %w", err))
	}
	if !s.live(createdAt) {
		return nil, ErrNotFound
	}

	return decode(key, payload)
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, key string, value Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := encode(value)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO plugin_cache (key, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, data, s.now().UnixNano(),
	); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("upsert plugin_cache: %w", err))
	}

	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM plugin_cache`); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("clear plugin_cache: %w", err))
	}

	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
