package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestGetDelIsSingleUse(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ns", "k", "v", time.Minute))
	v, err := c.GetDel(ctx, "ns", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = c.GetDel(ctx, "ns", "k")
	assert.ErrorIs(t, err, Nil)
}

func TestIncrWithExpireOpensWindowOnce(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	n, err := c.IncrWithExpire(ctx, "ns", "count", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	mr.FastForward(30 * time.Second)

	n, err = c.IncrWithExpire(ctx, "ns", "count", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 30*time.Second, mr.TTL("ns:count"))
}
