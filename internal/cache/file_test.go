package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreContract(t *testing.T) {
	runStoreContract(t, NewFileStore(afero.NewMemMapFs(), "/var/cache/plugins", 0))
}

func TestFileStoreOnDisk(t *testing.T) {
	runStoreContract(t, NewFileStore(afero.NewOsFs(), t.TempDir(), 0))
}

func TestFileStoreSharedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	require.NoError(t, NewFileStore(fs, "/c", 0).Save(ctx, "k1", sampleSnapshot()))

	other := NewFileStore(fs, "/c", 0)
	got, err := other.Fetch(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	exists, err := afero.Exists(fs, "/c/k1.gob.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temporary file must be renamed away")
}

func TestFileStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(afero.NewMemMapFs(), "/c", time.Minute)
	require.NoError(t, s.Save(ctx, "k1", Snapshot{}))

	ok, err := s.Contains(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	ok, err = s.Contains(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Fetch(ctx, "k1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreClearKeepsForeignFiles(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/site/plugins/blog/blog.yaml", []byte("enabled: true\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/site/notes.txt", []byte("keep"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/site/stale.gob.tmp", []byte("partial"), 0o644))

	s := NewFileStore(fs, "/site", 0)
	require.NoError(t, s.Save(ctx, "k1", sampleSnapshot()))
	require.NoError(t, s.Clear(ctx))

	for _, path := range []string{"/site/plugins/blog/blog.yaml", "/site/notes.txt"} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.True(t, exists, path)
	}
	for _, path := range []string{"/site/k1.gob", "/site/stale.gob.tmp"} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.False(t, exists, path)
	}

	ok, err := s.Contains(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreClearMissingDir(t *testing.T) {
	assert.NoError(t, NewFileStore(afero.NewMemMapFs(), "/nowhere", 0).Clear(context.Background()))
}
