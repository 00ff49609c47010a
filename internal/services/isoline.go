package services

import (
	"context"
	"fmt"
	"sort"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/ports"
)

// Fill colors assigned to polygons smallest range first.
var isolinePalette = []string{"#2f6fed", "#21a366", "#e8a33d", "#d64550", "#8e5bd1"}

// CalculateIsolines fetches one reachable-area polygon per requested time
// threshold, smallest first. Thresholds are validated up front so nothing
// hits the network when any of them is out of range; a failure on any
// threshold aborts the whole calculation.
func CalculateIsolines(
	ctx context.Context,
	provider ports.IsolineProvider,
	origin domain.Coordinates,
	rangeMinutes []int,
	transportMode string,
	m *metrics.Collector,
) ([]domain.IsolinePolygon, error) {
	if len(rangeMinutes) == 0 {
		return nil, fmt.Errorf("%w: at least one time range is required", domain.ErrValidation)
	}
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	ranges := append([]int(nil), rangeMinutes...)
	sort.Ints(ranges)
	for _, r := range ranges {
		if r <= 0 {
			return nil, fmt.Errorf("%w: time range must be positive, got %d", domain.ErrValidation, r)
		}
		if r*60 > 7200 {
			return nil, fmt.Errorf("%w: time range %d minutes exceeds the 2 hour maximum", domain.ErrValidation, r)
		}
	}

	polygons := make([]domain.IsolinePolygon, 0, len(ranges))
	for i, r := range ranges {
		if m != nil {
			m.IsolineCalls.Inc()
		}
		ring, err := provider.Reachable(ctx, origin, r, transportMode)
		if err != nil {
			if m != nil && ctx.Err() == nil {
				m.IsolineErrors.Inc()
			}
			return nil, fmt.Errorf("reachable area for %d minutes: %w", r, err)
		}
		polygons = append(polygons, domain.IsolinePolygon{
			TimeMinutes: r,
			Color:       isolinePalette[i%len(isolinePalette)],
			Coordinates: ring,
		})
	}

	return polygons, nil
}
