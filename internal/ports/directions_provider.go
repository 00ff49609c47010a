package ports

import (
	"context"

	"route-tracking-service/internal/domain"
)

// Distance and travel duration for a single leg. TimeMinutes is always
// minutes; unit normalization happens inside adapters.
type LegEstimate struct {
	DistanceMiles float64
	TimeMinutes   float64
}

// Contract for retrieving travel distance and duration between two points.
type DirectionsProvider interface {
	// Return travel distance and estimated duration for one leg.
	GetRoute(ctx context.Context, from, to domain.Coordinates, routeType domain.RouteType) (LegEstimate, error)
}
