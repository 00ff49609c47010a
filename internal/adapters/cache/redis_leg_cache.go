package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/ports"
)

// Redis-backed cache for leg estimates. Entries expire so stale travel
// times age out between deployments.
type RedisLegCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLegCache(client *redis.Client, ttl time.Duration) *RedisLegCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLegCache{client: client, ttl: ttl}
}

func legKey(from, to string, routeType domain.RouteType) string {
	return fmt.Sprintf("leg:%s:%s|%s", routeType, from, to)
}

type legEntry struct {
	DistanceMiles float64 `json:"distanceMiles"`
	TimeMinutes   float64 `json:"timeMinutes"`
}

func (c *RedisLegCache) Get(
	ctx context.Context,
	from, to string,
	routeType domain.RouteType,
) (ports.LegEstimate, bool, error) {
	if c.client == nil {
		return ports.LegEstimate{}, false, errors.New("leg cache: redis client is nil")
	}

	raw, err := c.client.Get(ctx, legKey(from, to, routeType)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.LegEstimate{}, false, nil
	}
	if err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("get leg cache: %w", err)
	}

	var entry legEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("decode leg cache entry: %w", err)
	}
	return ports.LegEstimate{DistanceMiles: entry.DistanceMiles, TimeMinutes: entry.TimeMinutes}, true, nil
}

func (c *RedisLegCache) Put(
	ctx context.Context,
	from, to string,
	routeType domain.RouteType,
	est ports.LegEstimate,
) error {
	if c.client == nil {
		return errors.New("leg cache: redis client is nil")
	}

	raw, err := json.Marshal(legEntry{DistanceMiles: est.DistanceMiles, TimeMinutes: est.TimeMinutes})
	if err != nil {
		return fmt.Errorf("encode leg cache entry: %w", err)
	}
	if err := c.client.Set(ctx, legKey(from, to, routeType), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert leg cache: %w", err)
	}
	return nil
}
