package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/platform/obs"
)

// Postgres-backed cache for address -> coordinates lookups.
type PGGeocodeCache struct {
	DB *sql.DB
}

func NewPGGeocodeCache(db *sql.DB) *PGGeocodeCache {
	return &PGGeocodeCache{DB: db}
}

func (c *PGGeocodeCache) Get(ctx context.Context, address string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "cache.geocode.Get")(&err)

	if c.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, errors.New("geocode cache: address must not be empty")
	}

	var coords domain.Coordinates
	err = c.DB.QueryRowContext(ctx,
		`SELECT lat, lng FROM geocode_cache WHERE address = $1;`, address).
		Scan(&coords.Lat, &coords.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache: %w", err)
	}
	return coords, true, nil
}

func (c *PGGeocodeCache) Put(ctx context.Context, address string, coords domain.Coordinates) error {
	if c.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("geocode cache: address must not be empty")
	}

	q := `
	INSERT INTO geocode_cache (address, lat, lng)
	VALUES ($1, $2, $3)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat, lng = EXCLUDED.lng;
	`
	if _, err := c.DB.ExecContext(ctx, q, address, coords.Lat, coords.Lng); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}
