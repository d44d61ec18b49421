package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseClient(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "jwks")
	assert.True(t, IsNotFound(err))

	buf := []byte(`{"keys":[]}`)
	require.NoError(t, c.Set(ctx, "jwks", buf, time.Minute))
	buf[0] = 'X'

	got, err := c.Get(ctx, "jwks")
	require.NoError(t, err)
	assert.Equal(t, `{"keys":[]}`, string(got))

	require.NoError(t, c.Delete(ctx, "jwks"))
	_, err = c.Get(ctx, "jwks")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Ping(ctx))
}

func TestMemory(t *testing.T) {
	m := NewMemory("test")
	defer m.Close()
	exerciseClient(t, m)
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory("")
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", []byte("v"), 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("CASTING_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CASTING_TEST_REDIS_ADDR not set")
	}
	c := NewRedis(redis.NewClient(&redis.Options{Addr: addr}), "casting-test")
	defer c.Close()
	exerciseClient(t, c)
}
