package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/ports"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestRedisLegCachePutGet(t *testing.T) {
	c := NewRedisLegCache(newTestRedis(t), time.Hour)
	ctx := context.Background()

	est := ports.LegEstimate{DistanceMiles: 5.2, TimeMinutes: 12.5}
	if err := c.Put(ctx, "40.0,-105.0", "40.1,-105.0", domain.RouteFastest, est); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "40.0,-105.0", "40.1,-105.0", domain.RouteFastest)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got != est {
		t.Fatalf("got %+v, want %+v", got, est)
	}
}

func TestRedisLegCacheMiss(t *testing.T) {
	c := NewRedisLegCache(newTestRedis(t), time.Hour)

	_, ok, err := c.Get(context.Background(), "a", "b", domain.RouteFastest)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss")
	}
}

func TestRedisLegCacheKeyedByRouteType(t *testing.T) {
	c := NewRedisLegCache(newTestRedis(t), time.Hour)
	ctx := context.Background()

	fast := ports.LegEstimate{DistanceMiles: 5, TimeMinutes: 10}
	walk := ports.LegEstimate{DistanceMiles: 4, TimeMinutes: 55}
	if err := c.Put(ctx, "a", "b", domain.RouteFastest, fast); err != nil {
		t.Fatalf("put fastest: %v", err)
	}
	if err := c.Put(ctx, "a", "b", domain.RoutePedestrian, walk); err != nil {
		t.Fatalf("put pedestrian: %v", err)
	}

	got, ok, err := c.Get(ctx, "a", "b", domain.RoutePedestrian)
	if err != nil || !ok {
		t.Fatalf("get pedestrian: ok=%v err=%v", ok, err)
	}
	if got != walk {
		t.Fatalf("got %+v, want %+v", got, walk)
	}
}
