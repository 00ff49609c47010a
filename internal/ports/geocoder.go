package ports

import (
	"context"

	"route-tracking-service/internal/domain"
)

// Contract for resolving a free-form address to coordinates.
type Geocoder interface {
	// Resolve an address. Returns domain.ErrGeocodeNotFound when the
	// provider has no match.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
