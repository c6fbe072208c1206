package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisClient returns a client for a local Redis, skipping when none answers.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", "localhost:6379", 200*time.Millisecond)
	if err != nil {
		t.Skip("redis not available on localhost:6379")
	}
	_ = conn.Close()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedis_SetGet(t *testing.T) {
	r := NewRedisFromClient(redisClient(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "test:k", []byte("v"), time.Minute))
	got, ok, err := r.Get(ctx, "test:k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok, err = r.Get(ctx, "test:missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ZeroTTLNotStored(t *testing.T) {
	client := redisClient(t)
	r := NewRedisFromClient(client)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "test:zero", []byte("v"), 0))
	_, ok, err := r.Get(ctx, "test:zero")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRedis_ContextCanceled(t *testing.T) {
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: "localhost:6379"}))
	defer r.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := r.Get(ctx, "k")
	assert.Error(t, err)
}
