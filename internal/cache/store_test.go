package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-cloud/plugload/internal/config"
	"github.com/andrei-cloud/plugload/internal/errorcodes"
	"github.com/andrei-cloud/plugload/internal/registry"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		"blog": {
			"title":   "My Blog",
			"enabled": true,
			"limit":   10,
			"ratio":   1.0,
			"tags":    []any{"a", "b"},
			"db":      map[string]any{"host": "localhost"},
		},
		"shop": {"enabled": false},
		"bare": {},
	}
}

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	ok, err := s.Contains(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Fetch(ctx, "0123456789abcdef")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	require.NoError(t, s.Save(ctx, "0123456789abcdef", sampleSnapshot()))

	ok, err = s.Contains(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Fetch(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	replacement := Snapshot{"blog": {"enabled": false}}
	require.NoError(t, s.Save(ctx, "0123456789abcdef", replacement))
	got, err = s.Fetch(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	require.NoError(t, s.Save(ctx, "fedcba9876543210", Snapshot{}))
	got, err = s.Fetch(ctx, "fedcba9876543210")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.Contains(ctx, "../escape")
	assert.True(t, errors.Is(err, errorcodes.ErrInvalidCacheKey))
	assert.True(t, errors.Is(s.Save(ctx, "", Snapshot{}), errorcodes.ErrInvalidCacheKey))

	require.NoError(t, s.Clear(ctx))
	ok, err = s.Contains(ctx, "0123456789abcdef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncodeDecodeNilConfig(t *testing.T) {
	data, err := encode(Snapshot{"empty": nil})
	require.NoError(t, err)

	got, err := decode("k", data)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{"empty": registry.Config{}}, got)
}

func TestEncodeDecodeKeepsValueTypes(t *testing.T) {
	released := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Snapshot{"blog": {
		"ratio":    1.0,
		"limit":    10,
		"big":      uint64(1 << 63),
		"released": released,
		"date":     "2024-01-02",
		"tags":     []any{"a", []any{"b", 2.0}, nil},
		"db":       map[string]any{"port": 5432, "weight": 0.5, "opts": []any{map[string]any{"ssl": true}}},
		"nested":   registry.Config{"x": 3.0},
		"none":     nil,
	}}

	data, err := encode(in)
	require.NoError(t, err)

	got, err := decode("k", data)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.IsType(t, float64(0), got["blog"]["ratio"])
	assert.IsType(t, time.Time{}, got["blog"]["released"])
}

func TestDecodeRejectsCorruptEntries(t *testing.T) {
	_, err := decode("k", []byte("blog: 3\n"))
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))

	_, err = decode("k", []byte("blog: [\n"))
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.Cache{Driver: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, config.Cache{Driver: "", Dir: "/cache"}, afero.NewMemMapFs())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = New(ctx, config.Cache{Driver: "FILE", Dir: "/cache"}, afero.NewMemMapFs())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = New(ctx, config.Cache{Driver: "memcached"}, nil)
	assert.True(t, errors.Is(err, errorcodes.ErrUnknownDriver))

	_, err = New(ctx, config.Cache{Driver: "s3"}, nil)
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))
}
