// Package cache provides persistent backends for leg estimates and geocode
// results, so repeated refresh cycles do not re-query the external provider
// for unchanged legs.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/platform/obs"
	"route-tracking-service/internal/ports"
)

// Postgres-backed cache for leg estimates. Keys ("lat,lng" endpoints plus
// travel profile) are expected to be consistent by the caller.
type PGLegCache struct {
	DB *sql.DB
}

func NewPGLegCache(db *sql.DB) *PGLegCache {
	return &PGLegCache{DB: db}
}

// InitSchema creates the cache tables when missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init cache schema: db is nil")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS leg_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			route_type TEXT NOT NULL,
			distance_miles DOUBLE PRECISION NOT NULL,
			time_minutes DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (origin, destination, route_type)
		);`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init cache schema: %w", err)
		}
	}
	return nil
}

func (c *PGLegCache) Get(
	ctx context.Context,
	from, to string,
	routeType domain.RouteType,
) (_ ports.LegEstimate, _ bool, err error) {
	defer obs.Time(ctx, "cache.leg.Get")(&err)

	if c.DB == nil {
		return ports.LegEstimate{}, false, errors.New("leg cache: db is nil")
	}

	q := `
	SELECT distance_miles, time_minutes
	FROM leg_cache
	WHERE origin = $1 AND destination = $2 AND route_type = $3;
	`

	var est ports.LegEstimate
	err = c.DB.QueryRowContext(ctx, q, from, to, string(routeType)).
		Scan(&est.DistanceMiles, &est.TimeMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LegEstimate{}, false, nil
	}
	if err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("get leg cache: %w", err)
	}
	return est, true, nil
}

func (c *PGLegCache) Put(
	ctx context.Context,
	from, to string,
	routeType domain.RouteType,
	est ports.LegEstimate,
) error {
	if c.DB == nil {
		return errors.New("leg cache: db is nil")
	}

	q := `
	INSERT INTO leg_cache (origin, destination, route_type, distance_miles, time_minutes)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (origin, destination, route_type) DO UPDATE
	SET distance_miles = EXCLUDED.distance_miles,
		time_minutes = EXCLUDED.time_minutes;
	`

	if _, err := c.DB.ExecContext(ctx, q, from, to, string(routeType), est.DistanceMiles, est.TimeMinutes); err != nil {
		return fmt.Errorf("insert leg cache: %w", err)
	}
	return nil
}
