package rate

import (
	"context"
	"os"
	"testing"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return base }
	ctx := context.Background()

	r1, _ := l.Allow(ctx, "10.0.0.1")
	r2, _ := l.Allow(ctx, "10.0.0.1")
	r3, _ := l.Allow(ctx, "10.0.0.1")
	assert.True(t, r1.Allowed)
	assert.Equal(t, int64(1), r1.Remaining)
	assert.True(t, r2.Allowed)
	assert.False(t, r3.Allowed)
	assert.Equal(t, int64(0), r3.Remaining)
	assert.Equal(t, time.Minute, r3.RetryAfter)

	other, _ := l.Allow(ctx, "10.0.0.2")
	assert.True(t, other.Allowed, "keys are independent")

	l.now = func() time.Time { return base.Add(time.Minute) }
	next, _ := l.Allow(ctx, "10.0.0.1")
	assert.True(t, next.Allowed, "new window resets the count")
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("CASTING_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CASTING_TEST_REDIS_ADDR not set")
	}
	client := rdb.NewClient(&rdb.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	l := NewRedisLimiter(client, "rl:test:"+time.Now().Format("150405.000")+":", 1, time.Minute)
	r1, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, r1.Allowed)

	r2, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, r2.Allowed)
	assert.Greater(t, r2.RetryAfter, time.Duration(0))
}
