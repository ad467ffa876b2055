package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	d.Subscribe(PluginsInitialized, func(context.Context) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(PluginsInitialized, func(context.Context) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe("other", func(context.Context) error {
		calls = append(calls, "other")
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), PluginsInitialized))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 1, d.Dispatched(PluginsInitialized))
	assert.Equal(t, 0, d.Dispatched("other"))
}

func TestDispatchWithoutSubscribersIsCounted(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Dispatch(context.Background(), "nobody"))
	require.NoError(t, d.Dispatch(context.Background(), "nobody"))
	assert.Equal(t, 2, d.Dispatched("nobody"))
}

func TestDispatchCollectsErrorsAndPanics(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	ran := false
	d.Subscribe("e", func(context.Context) error { return boom })
	d.Subscribe("e", func(context.Context) error { panic("kaboom") })
	d.Subscribe("e", func(context.Context) error {
		ran = true
		return nil
	})

	err := d.Dispatch(context.Background(), "e")
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, ran, "later handlers still run")
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	count := 0
	unsubscribe := d.Subscribe("e", func(context.Context) error {
		count++
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), "e"))
	unsubscribe()
	unsubscribe()
	require.NoError(t, d.Dispatch(context.Background(), "e"))

	assert.Equal(t, 1, count)
}
