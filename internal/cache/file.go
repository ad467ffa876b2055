package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/andrei-cloud/plugload/internal/errorcodes"
)

const fileExt = ".gob"

// FileStore keeps one encoded file per key under a directory. It survives
// process restarts, which lets separate runs share a fingerprint hit.
type FileStore struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates a file store rooted at dir. A nil fs means the OS
// filesystem; a non-positive ttl disables expiry.
func NewFileStore(fsys afero.Fs, dir string, ttl time.Duration) *FileStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if dir == "" {
		dir = filepath.Join("cache", "plugins")
	}

	return &FileStore{fs: fsys, dir: dir, ttl: ttl, now: time.Now}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) expired(written time.Time) bool {
	return s.ttl > 0 && s.now().Sub(written) > s.ttl
}

// Contains implements Store.
func (s *FileStore) Contains(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	fi, err := s.fs.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errorcodes.ErrCacheBackend.Wrap(err)
	}

	return !s.expired(fi.ModTime()), nil
}

// Fetch implements Store.
func (s *FileStore) Fetch(ctx context.Context, key string) (Snapshot, error) {
	ok, err := s.Contains(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errorcodes.ErrCacheBackend.Wrap(err)
	}

	return decode(key, data)
}

// Save implements Store. The entry is written to a temporary file and renamed
// into place.
func (s *FileStore) Save(_ context.Context, key string, value Snapshot) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := encode(value)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("create cache dir: %w", err))
	}

	final := s.path(key)
	tmp := final + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("write cache entry: %w", err))
	}
	if err := s.fs.Rename(tmp, final); err != nil {
		_ = s.fs.Remove(tmp)

		return errorcodes.ErrCacheBackend.Wrap(fmt.Errorf("commit cache entry: %w", err))
	}

	return nil
}

// Clear implements Store.
// Only entries written by the store are removed; the directory and any
// other files in it are left alone.
func (s *FileStore) Clear(context.Context) error {
	for _, pattern := range []string{"*" + fileExt, "*" + fileExt + ".tmp"} {
		matches, err := afero.Glob(s.fs, filepath.Join(s.dir, pattern))
		if err != nil {
			return errorcodes.ErrCacheBackend.Wrap(err)
		}
		for _, path := range matches {
			if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return errorcodes.ErrCacheBackend.Wrap(err)
			}
		}
	}

	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}
