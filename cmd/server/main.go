package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"route-tracking-service/internal/adapters/cache"
	"route-tracking-service/internal/adapters/directions"
	"route-tracking-service/internal/adapters/isoline"
	"route-tracking-service/internal/adapters/publisher"
	"route-tracking-service/internal/api"
	"route-tracking-service/internal/config"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/platform/db"
	"route-tracking-service/internal/ports"
	"route-tracking-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, NATS, the routing API)
// behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewCollector()

	// Leg and geocode caches: Redis wins for legs when configured,
	// Postgres covers both when DATABASE_URL is set, otherwise uncached.
	var legCache ports.LegCache
	var geoCache ports.GeocodeCache

	if cfg.DatabaseURL != "" {
		pg, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := cache.InitSchema(ctx, pg); err != nil {
			log.Fatal(err)
		}
		legCache = cache.NewPGLegCache(pg)
		geoCache = cache.NewPGGeocodeCache(pg)
		log.Printf("postgres cache enabled")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		defer rdb.Close()

		legCache = cache.NewRedisLegCache(rdb, cfg.LegCacheTTL)
		log.Printf("redis leg cache enabled addr=%s ttl=%s", cfg.RedisAddr, cfg.LegCacheTTL)
	}

	var pub ports.PositionPublisher
	if cfg.NATSURL != "" {
		np, err := publisher.NewNATSPublisher(cfg.NATSURL, m)
		if err != nil {
			log.Fatalf("nats connect: %v", err)
		}
		defer np.Close()
		pub = np
		log.Printf("nats position publishing enabled url=%s", cfg.NATSURL)
	}

	if cfg.MetricsAddr != "" {
		msrv := m.Serve(cfg.MetricsAddr)
		defer msrv.Shutdown(context.Background())
		log.Printf("metrics listening addr=%s", cfg.MetricsAddr)
	}

	provider, err := directions.NewClient(cfg.DirectionsAPIKey, cfg.DirectionsBaseURL, legCache, geoCache)
	if err != nil {
		log.Fatal(err)
	}
	isolines, err := isoline.NewClient(cfg.DirectionsAPIKey, cfg.IsolineBaseURL)
	if err != nil {
		log.Fatal(err)
	}

	sessions := services.NewManager(provider, pub, m, services.SessionOptions{
		TickEvery:      cfg.TickInterval,
		StepMinutes:    cfg.StepMinutes,
		RefreshSeconds: int(cfg.RefreshInterval / time.Second),
	})

	router := api.NewRouter(sessions, isolines, provider, m)

	// Timeouts are tuned for cold-cache route computation (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening addr=:%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: err=%v", err)
	}

	sessions.Shutdown()
	log.Printf("server stopped")
}
