package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRedisClient struct {
	FakeCache
	pingErr error
}

func (f *fakeRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.pingErr)
}

func TestNewRedisClient(t *testing.T) {
	t.Cleanup(func() {
		redisNewClient = func(opt *redis.Options) redisClient { return redis.NewClient(opt) }
	})

	t.Run("ping failure", func(t *testing.T) {
		redisNewClient = func(opt *redis.Options) redisClient {
			return &fakeRedisClient{pingErr: errors.New("connection refused")}
		}
		client, err := NewRedisClient("localhost:6379", "", 0)
		require.Error(t, err)
		require.Nil(t, client)
	})

	t.Run("passes options through", func(t *testing.T) {
		var gotOpt *redis.Options
		fake := &fakeRedisClient{}
		redisNewClient = func(opt *redis.Options) redisClient {
			gotOpt = opt
			return fake
		}
		client, err := NewRedisClient("redis:6380", "secret", 2)
		require.NoError(t, err)
		require.Equal(t, Cache(fake), client)
		require.Equal(t, "redis:6380", gotOpt.Addr)
		require.Equal(t, "secret", gotOpt.Password)
		require.Equal(t, 2, gotOpt.DB)
	})
}

func TestFakeCacheDefaults(t *testing.T) {
	f := &FakeCache{}

	require.Panics(t, func() { f.Get(context.Background(), "k") })
	require.Panics(t, func() { f.Set(context.Background(), "k", "v", time.Second) })
	require.Panics(t, func() { f.Del(context.Background(), "k") })
	require.NoError(t, f.Close())
}
