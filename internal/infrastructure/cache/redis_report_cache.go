package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appreport "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/domain/report"
)

// RedisReportCache caches assembled sales reports in Redis as JSON. Entries
// expire by TTL only; writes never invalidate other keys.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache creates a Redis-backed report cache
func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{client: client}
}

var _ appreport.ReportCache = (*RedisReportCache)(nil)

// Get returns the cached report for the key, or (nil, nil) on a miss
func (c *RedisReportCache) Get(ctx context.Context, key string) (*report.SalesReport, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var rep report.SalesReport
	if err := json.Unmarshal(data, &rep); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, nil
	}
	return &rep, nil
}

// Set stores the report under the key with the given TTL
func (c *RedisReportCache) Set(ctx context.Context, key string, rep *report.SalesReport, ttl time.Duration) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
