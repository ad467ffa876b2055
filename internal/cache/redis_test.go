package cache

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-cloud/plugload/internal/errorcodes"
)

// setupRedisStore starts a miniredis instance and connects a store to it.
func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestRedisStoreContract(t *testing.T) {
	s, _ := setupRedisStore(t, 0)
	runStoreContract(t, s)
}

func TestRedisStoreUsesPrefixAndTTL(t *testing.T) {
	s, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, s.Save(ctx, "abc", Snapshot{"blog": {"enabled": true}}))

	assert.True(t, mr.Exists(DefaultRedisPrefix+"abc"))
	assert.Equal(t, time.Hour, mr.TTL(DefaultRedisPrefix+"abc"))

	mr.FastForward(2 * time.Hour)
	ok, err := s.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx))
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisStoreDropsCorruptEntries(t *testing.T) {
	s, mr := setupRedisStore(t, 0)
	require.NoError(t, mr.Set(DefaultRedisPrefix+"bad", "- not\n- a mapping\n"))

	_, err := s.Fetch(context.Background(), "bad")
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"bad"))
}

// failDel rejects DEL commands before they reach the server.
type failDel struct{}

func (failDel) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	if strings.EqualFold(cmd.Name(), "del") {
		return ctx, errors.New("del refused")
	}

	return ctx, nil
}

func (failDel) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (failDel) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (failDel) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

func TestRedisStoreLogsFailedCorruptEntryDrop(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	s, mr := setupRedisStore(t, 0)
	s.client.AddHook(failDel{})
	require.NoError(t, mr.Set(DefaultRedisPrefix+"bad", "- not\n- a mapping\n"))

	_, err := s.Fetch(context.Background(), "bad")
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"bad"))
	assert.Contains(t, buf.String(), "failed to drop corrupt cache entry")
	assert.Contains(t, buf.String(), "del refused")
	assert.Contains(t, buf.String(), `"key":"bad"`)
}

func TestNewRedisStoreErrors(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "invalid://url", "", 0)
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), "redis://"+addr, "", 0)
	assert.True(t, errors.Is(err, errorcodes.ErrCacheBackend))
}
