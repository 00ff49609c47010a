package ports

import (
	"context"

	"route-tracking-service/internal/domain"
)

// Cache boundary for resolved addresses. A nil cache disables geocode
// caching in the directions provider.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, coords domain.Coordinates) error
}
