package ports

import (
	"context"

	"route-tracking-service/internal/domain"
)

// Contract for computing reachable-area outlines around an origin.
type IsolineProvider interface {
	// Return the outer ring of the area reachable within rangeMinutes.
	Reachable(ctx context.Context, origin domain.Coordinates, rangeMinutes int, transportMode string) ([]domain.Coordinates, error)
}
