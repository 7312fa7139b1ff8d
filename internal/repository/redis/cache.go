package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"asset-qr/internal/domain"
	"asset-qr/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache keeps recently resolved asset records in Redis (cache-aside).
// Records never change once stored, so entries only leave through the TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a new Redis cache
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func assetKey(id string) string {
	return fmt.Sprintf("asset:%s", id)
}

// GetAsset retrieves a record from cache.
// A miss returns (nil, nil).
func (c *Cache) GetAsset(ctx context.Context, id string) (*domain.AssetRecord, error) {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	data, err := c.client.Get(ctx, assetKey(id)).Result()
	if err == redis.Nil {
		metrics.RecordCacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	metrics.RecordCacheHit()

	var record domain.AssetRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached asset: %w", err)
	}

	return &record, nil
}

// SetAsset stores a record in cache
func (c *Cache) SetAsset(ctx context.Context, id string, record *domain.AssetRecord) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	}()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}

	if err := c.client.Set(ctx, assetKey(id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// InitRedis creates a new Redis client
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
