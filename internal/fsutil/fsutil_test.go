package fsutil

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSubdirectories(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/plugins/shop", 0o755))
	require.NoError(t, mem.MkdirAll("/plugins/blog/languages", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/plugins/README.md", []byte("x"), 0o644))

	fs := New(mem)
	names, err := fs.ListSubdirectories("/plugins")
	require.NoError(t, err)
	assert.Equal(t, []string{"blog", "shop"}, names)

	_, err = fs.ListSubdirectories("/missing")
	assert.Error(t, err)
}

func TestExistsOnlyForRegularFiles(t *testing.T) {
	fs := New(afero.NewMemMapFs())
	require.NoError(t, fs.WriteFile("/plugins/blog/settings.yaml", []byte("title: Blog\n"), 0o644))

	assert.True(t, fs.Exists("/plugins/blog/settings.yaml"))
	assert.False(t, fs.Exists("/plugins/blog"))
	assert.False(t, fs.Exists("/plugins/blog/blog.yaml"))
}

func TestModTimeFollowsChtimes(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := New(mem)
	require.NoError(t, fs.WriteFile("/a/b.yaml", nil, 0o644))

	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, mem.Chtimes("/a/b.yaml", stamp, stamp))

	got, err := fs.ModTime("/a/b.yaml")
	require.NoError(t, err)
	assert.True(t, stamp.Equal(got))
}
