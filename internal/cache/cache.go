package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Nil is returned by Get and GetDel for a missing key.
const Nil = redis.Nil

type Cache struct {
	client redis.UniversalClient // works with both single and cluster
}

func NewCache(addrs []string, password string, db int, useCluster bool) *Cache {
	var rdb redis.UniversalClient

	if useCluster && len(addrs) > 1 {
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    addrs,
			Password: password,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addrs[0],
			Password: password,
			DB:       db,
		})
	}

	return &Cache{client: rdb}
}

func NewFromClient(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func key(namespace, k string) string { return namespace + ":" + k }

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Set(ctx context.Context, namespace, k string, value interface{}, ttl time.Duration) error {
	return c.client.Set(ctx, key(namespace, k), value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, namespace, k string) (string, error) {
	return c.client.Get(ctx, key(namespace, k)).Result()
}

// GetDel reads and removes the key in one round trip.
func (c *Cache) GetDel(ctx context.Context, namespace, k string) (string, error) {
	return c.client.GetDel(ctx, key(namespace, k)).Result()
}

func (c *Cache) Delete(ctx context.Context, namespace, k string) error {
	return c.client.Del(ctx, key(namespace, k)).Err()
}

func (c *Cache) GetTTL(ctx context.Context, namespace, k string) (time.Duration, error) {
	return c.client.TTL(ctx, key(namespace, k)).Result()
}

func (c *Cache) IncrWithExpire(ctx context.Context, namespace, k string, window time.Duration) (int64, error) {
	countKey := key(namespace, k)

	cnt, err := c.client.Incr(ctx, countKey).Result()
	if err != nil {
		return 0, err
	}

	// first increment opens the window
	if cnt == 1 {
		_ = c.client.Expire(ctx, countKey, window).Err()
	}

	return cnt, nil
}
