package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/platform/obs"
	"route-tracking-service/internal/ports"
)

// Result of one full route computation. Warnings carry per-leg degradations
// that did not abort the computation.
type RouteComputation struct {
	Result   domain.RouteResult
	Warnings []string
}

// ComputeRoute resolves every consecutive stop pair through the directions
// provider and aggregates the legs into a RouteResult.
//
// Legs are queried sequentially, not in parallel: ordering is preserved and
// the provider is never hit with a burst. A leg whose query fails or returns
// no usable distance/time contributes zero to the totals instead of aborting
// the computation; the degradation is recorded as a warning so the caller
// can surface it. Only context cancellation aborts the loop.
func ComputeRoute(
	ctx context.Context,
	cfg domain.RouteConfig,
	provider ports.DirectionsProvider,
	m *metrics.Collector,
) (_ RouteComputation, err error) {
	defer obs.Time(ctx, "services.ComputeRoute")(&err)

	if err := ctx.Err(); err != nil {
		return RouteComputation{}, err
	}
	if len(cfg.Stops) < 2 {
		return RouteComputation{}, fmt.Errorf("%w: a route needs at least 2 stops", domain.ErrValidation)
	}

	comp := RouteComputation{
		Result: domain.RouteResult{Legs: make([]domain.Leg, 0, len(cfg.Stops)-1)},
	}

	for i := 0; i < len(cfg.Stops)-1; i++ {
		if err := ctx.Err(); err != nil {
			return RouteComputation{}, err
		}

		from := cfg.Stops[i]
		to := cfg.Stops[i+1]

		if m != nil {
			m.DirectionsCalls.Inc()
		}
		est, legErr := provider.GetRoute(ctx, from.Coordinates(), to.Coordinates(), cfg.RouteType)
		if legErr != nil {
			if ctx.Err() != nil {
				return RouteComputation{}, ctx.Err()
			}
			if m != nil {
				m.DirectionsErrors.Inc()
			}
			log.Printf("leg directions failed: from=%q to=%q err=%v", from.Address, to.Address, legErr)
			comp.Warnings = append(comp.Warnings,
				fmt.Sprintf("no directions for %q to %q; leg counted as zero", from.Address, to.Address))
			est = ports.LegEstimate{}
		}

		comp.Result.Legs = append(comp.Result.Legs, domain.Leg{
			From:          from.Address,
			To:            to.Address,
			DistanceMiles: est.DistanceMiles,
			TimeMinutes:   est.TimeMinutes,
		})
		comp.Result.TotalDistanceMiles += est.DistanceMiles
		comp.Result.TotalTimeMinutes += est.TimeMinutes
	}

	return comp, nil
}

// ETAs walks legs cumulatively from the base departure timestamp and
// produces one arrival timestamp per stop boundary (len = legs + 1; the
// first entry is the departure itself).
func ETAs(departure time.Time, legs []domain.Leg) []time.Time {
	etas := make([]time.Time, 0, len(legs)+1)
	etas = append(etas, departure)

	at := departure
	for _, leg := range legs {
		at = at.Add(time.Duration(leg.TimeMinutes * float64(time.Minute)))
		etas = append(etas, at)
	}
	return etas
}

// DepartureBase picks the ETA baseline for a config: the shared departure
// time when present, otherwise now.
func DepartureBase(cfg domain.RouteConfig, now time.Time) time.Time {
	if cfg.DepartureTime != nil && !cfg.DepartureTime.IsZero() {
		return *cfg.DepartureTime
	}
	return now
}

// FormatCountdown renders whole seconds as "M:SS" for the refresh countdown
// display.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
