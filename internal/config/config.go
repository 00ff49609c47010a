package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DirectionsAPIKey  string
	DirectionsBaseURL string
	IsolineBaseURL    string

	// Optional backing services. Empty values disable the integration.
	DatabaseURL string
	RedisAddr   string
	NATSURL     string
	MetricsAddr string

	TickInterval    time.Duration
	StepMinutes     float64
	RefreshInterval time.Duration
	LegCacheTTL     time.Duration
}

// Load reads configuration from the environment, after merging a local .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.DirectionsAPIKey = os.Getenv("DIRECTIONS_API_KEY")
	if cfg.DirectionsAPIKey == "" {
		return nil, errors.New("DIRECTIONS_API_KEY must be set")
	}
	cfg.DirectionsBaseURL = getenvDefault("DIRECTIONS_BASE_URL", "https://www.mapquestapi.com")
	cfg.IsolineBaseURL = getenvDefault("ISOLINE_BASE_URL", cfg.DirectionsBaseURL)

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	// Simulation tick
	if v := os.Getenv("TICK_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid TICK_INTERVAL_MS: %q", v)
		}
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	} else {
		cfg.TickInterval = 2 * time.Second
	}

	// Simulated minutes advanced per tick
	if v := os.Getenv("STEP_MINUTES"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid STEP_MINUTES: %q", v)
		}
		cfg.StepMinutes = f
	} else {
		cfg.StepMinutes = 0.5
	}

	// Route refresh interval (seconds)
	if v := os.Getenv("REFRESH_INTERVAL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL_SEC: %q", v)
		}
		cfg.RefreshInterval = time.Duration(sec) * time.Second
	} else {
		cfg.RefreshInterval = 300 * time.Second
	}

	// Leg cache TTL (hours), only used with REDIS_ADDR
	if v := os.Getenv("LEG_CACHE_TTL_HOURS"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("invalid LEG_CACHE_TTL_HOURS: %q", v)
		}
		cfg.LegCacheTTL = time.Duration(h) * time.Hour
	} else {
		cfg.LegCacheTTL = 24 * time.Hour
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
