package draft

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreFromClient(client), mr
}

func TestRedisStore_SetGetRemove(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", `{"a":1}`, 0))
	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, val)

	require.NoError(t, store.Remove(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "otp_x", "123456", 10*time.Minute))

	mr.FastForward(9 * time.Minute)
	_, err := store.Get(ctx, "otp_x")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "otp_x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_LastWriteWins(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "first", 0))
	require.NoError(t, store.Set(ctx, "k", "second", 0))

	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", val)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	// an already-expired entry reads as missing
	require.NoError(t, store.Set(ctx, "gone", "v", -time.Second))
	_, err = store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// overwriting with no ttl clears a previous ttl
	require.NoError(t, store.Set(ctx, "k2", "v", -time.Second))
	require.NoError(t, store.Set(ctx, "k2", "v2", 0))
	val, err = store.Get(ctx, "k2")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)

	require.NoError(t, store.Remove(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
