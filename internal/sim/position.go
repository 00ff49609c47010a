// Package sim computes and advances simulated driver positions along a
// multi-leg route.
package sim

import "route-tracking-service/internal/domain"

// PositionAt derives the point-in-time driver state for a route after
// elapsedMinutes of travel.
//
// The walk accumulates leg durations until it finds the leg the vehicle is
// currently inside, then interpolates between that leg's endpoints. When
// elapsed time meets or exceeds the total route time the position pins to
// the final stop and further calls are no-ops. The function is pure and
// cannot fail for a well-formed route; callers guarantee
// len(stops) == len(legs)+1 and len(stops) >= 2.
func PositionAt(stops []domain.Stop, legs []domain.Leg, elapsedMinutes float64) domain.DriverPosition {
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}

	pos := domain.DriverPosition{TimeElapsedMinutes: elapsedMinutes}

	var timeAccum float64
	for i, leg := range legs {
		// A zero-duration leg at the exact boundary is not "completed":
		// it resolves mid-leg with progress 1 below, so the position
		// lands on its destination stop instead of the start of the next
		// leg.
		completed := timeAccum+leg.TimeMinutes <= elapsedMinutes &&
			(leg.TimeMinutes > 0 || timeAccum < elapsedMinutes)
		if completed {
			timeAccum += leg.TimeMinutes
			pos.CompletedStops++
			pos.DistanceTraveledMiles += leg.DistanceMiles
			continue
		}

		// Mid-leg. A zero-duration leg (two identical locations) counts
		// as instantly traversed rather than dividing by zero.
		progress := 1.0
		if leg.TimeMinutes > 0 {
			progress = clamp((elapsedMinutes-timeAccum)/leg.TimeMinutes, 0, 1)
		}

		pos.CurrentLegIndex = i
		pos.ProgressInLeg = progress
		pos.DistanceTraveledMiles += leg.DistanceMiles * progress
		pos.Lat, pos.Lng = lerpPosition(stops[i], stops[i+1], progress)
		return pos
	}

	// Elapsed time covers the whole route: pin to the final stop with
	// distance and time equal to the route totals.
	last := len(stops) - 1
	pos.CurrentLegIndex = maxInt(len(legs)-1, 0)
	pos.ProgressInLeg = 1
	pos.CompletedStops = last
	pos.TimeElapsedMinutes = timeAccum
	pos.Lat = stops[last].Lat
	pos.Lng = stops[last].Lng
	return pos
}

// lerpPosition interpolates latitude and longitude independently between two
// stops. This is a planar approximation, fine at city scale; it is neither
// geodesically correct nor snapped to road geometry. Kept in one place so it
// can be swapped for great-circle interpolation later.
func lerpPosition(from, to domain.Stop, progress float64) (lat, lng float64) {
	lat = from.Lat + (to.Lat-from.Lat)*progress
	lng = from.Lng + (to.Lng-from.Lng)*progress
	return lat, lng
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
