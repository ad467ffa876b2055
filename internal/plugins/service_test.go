package plugins

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-cloud/plugload/internal/config"
	"github.com/andrei-cloud/plugload/internal/errorcodes"
)

func TestServiceInitializesOnce(t *testing.T) {
	act := &recorder{}
	svc := NewService(newTestLoader(blogShopTree(t), nil, act))

	const callers = 8
	states := make([]*State, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			st, err := svc.Instance(context.Background())
			assert.NoError(t, err)
			states[i] = st
		}()
	}
	wg.Wait()

	for _, st := range states {
		assert.Same(t, states[0], st)
	}
	assert.Equal(t, []string{"blog"}, act.names())
	assert.Equal(t, 1, svc.Loader().Events().Dispatched("onPluginsInitialized"))
}

func TestServiceCachesError(t *testing.T) {
	fs := blogShopTree(t)
	writeFile(t, fs, "blog/blog.yaml", "a: [\n", baseTime)
	svc := NewService(newTestLoader(fs, nil, nil))

	_, first := svc.Instance(context.Background())
	_, second := svc.Instance(context.Background())

	require.Error(t, first)
	assert.Equal(t, first, second)
}

func TestNewServiceFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Plugins: config.Plugins{Path: dir + "/plugins"},
		Cache:   config.Cache{Driver: "memory"},
	}

	svc, err := NewServiceFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	state, err := svc.Instance(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Plugins)
	assert.Equal(t, dir+"/plugins", svc.Loader().Root())
	assert.NotNil(t, svc.Loader().Metrics())

	_, err = NewServiceFromConfig(context.Background(), &config.Config{Cache: config.Cache{Driver: "nope"}})
	assert.ErrorIs(t, err, errorcodes.ErrUnknownDriver)
}

func TestLocales(t *testing.T) {
	locales := Locales()
	require.Len(t, locales, 33)
	assert.Equal(t, "ar", locales[0].Code)
}
