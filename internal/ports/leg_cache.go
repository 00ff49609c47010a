package ports

import (
	"context"

	"route-tracking-service/internal/domain"
)

// Cache boundary for leg estimates keyed by endpoints and travel profile.
// Implemented by the Postgres and Redis adapters; a nil cache disables
// caching in the directions provider.
type LegCache interface {
	// Fetch a cached estimate. The bool reports whether the key was found.
	Get(ctx context.Context, from, to string, routeType domain.RouteType) (LegEstimate, bool, error)
	// Store an estimate, overwriting any previous value for the key.
	Put(ctx context.Context, from, to string, routeType domain.RouteType, est LegEstimate) error
}
