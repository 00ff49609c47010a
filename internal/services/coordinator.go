package services

import (
	"context"
	"log"
	"sync"
	"time"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/ports"
)

// Coordinator owns the slow refresh cycle for one tracked route: it
// recomputes the RouteResult and ETA list on a countdown timer and on
// manual refresh, and re-seeds interested parties when a new result lands.
//
// Results are replaced atomically and stale-while-revalidate: an in-flight
// recompute never clears what is displayed, a failed one surfaces an error
// message but keeps the last good result, and a monotonic sequence number
// ensures only the newest issued computation is ever applied.
type Coordinator struct {
	cfg       domain.RouteConfig
	departure time.Time
	provider  ports.DirectionsProvider
	metrics   *metrics.Collector
	interval  int
	onRoute   func(result domain.RouteResult, departure time.Time)

	mu        sync.Mutex
	result    *domain.RouteResult
	etas      []time.Time
	warnings  []string
	errMsg    string
	countdown int
	seq       uint64
	updatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Read-only view of coordinator state for the presentation layer.
type TimelineSnapshot struct {
	Result           *domain.RouteResult
	ETAs             []time.Time
	Warnings         []string
	ErrorMessage     string
	CountdownSeconds int
	UpdatedAt        time.Time
}

// NewCoordinator builds a coordinator that refreshes every intervalSeconds.
// onRoute is invoked (outside the coordinator lock) each time a computation
// is applied; it may be nil.
func NewCoordinator(
	cfg domain.RouteConfig,
	departure time.Time,
	provider ports.DirectionsProvider,
	m *metrics.Collector,
	intervalSeconds int,
	onRoute func(domain.RouteResult, time.Time),
) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		departure: departure,
		provider:  provider,
		metrics:   m,
		interval:  intervalSeconds,
		onRoute:   onRoute,
		countdown: intervalSeconds,
	}
}

// Start kicks off the initial computation and the 1-second countdown loop.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.ctx = ctx
	c.cancel = cancel
	c.mu.Unlock()

	c.launchCompute(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				c.mu.Lock()
				c.countdown--
				expired := c.countdown <= 0
				if expired {
					c.countdown = c.interval
				}
				c.mu.Unlock()
				if expired {
					c.launchCompute(ctx)
				}
			}
		}
	}()
}

// Refresh recomputes immediately and resets the countdown, independent of
// the ticker's phase. No-op before Start.
func (c *Coordinator) Refresh() {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return
	}
	c.countdown = c.interval
	c.mu.Unlock()
	c.launchCompute(c.runCtx())
}

func (c *Coordinator) runCtx() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// launchCompute issues a new sequence number and recomputes in the
// background. The computation applies only if it is still the newest when
// it finishes; superseded results are abandoned.
//
// The running check and wg.Add happen under the same lock Stop takes to
// clear cancel, so a Refresh racing Stop can never add to the group after
// Stop has started waiting on it.
func (c *Coordinator) launchCompute(ctx context.Context) {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.wg.Add(1)
	c.mu.Unlock()
	go func() {
		defer c.wg.Done()
		if c.metrics != nil {
			c.metrics.RouteRefreshes.Inc()
		}

		comp, err := ComputeRoute(ctx, c.cfg, c.provider, c.metrics)

		c.mu.Lock()
		if seq != c.seq {
			// A newer computation was issued while this one ran.
			c.mu.Unlock()
			return
		}
		if err != nil {
			if c.metrics != nil {
				c.metrics.RefreshErrors.Inc()
			}
			if ctx.Err() == nil {
				c.errMsg = "route update failed; showing last known data"
				log.Printf("route compute failed: err=%v", err)
			}
			c.mu.Unlock()
			return
		}

		result := comp.Result
		c.result = &result
		c.etas = ETAs(c.departure, result.Legs)
		c.warnings = comp.Warnings
		c.errMsg = ""
		c.updatedAt = time.Now()
		onRoute := c.onRoute
		c.mu.Unlock()

		if onRoute != nil {
			onRoute(result, c.departure)
		}
	}()
}

// Snapshot returns a copy of the current timeline state.
func (c *Coordinator) Snapshot() TimelineSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := TimelineSnapshot{
		ErrorMessage:     c.errMsg,
		CountdownSeconds: c.countdown,
		UpdatedAt:        c.updatedAt,
	}
	if c.result != nil {
		r := *c.result
		r.Legs = append([]domain.Leg(nil), c.result.Legs...)
		snap.Result = &r
	}
	snap.ETAs = append([]time.Time(nil), c.etas...)
	snap.Warnings = append([]string(nil), c.warnings...)
	return snap
}

// Stop cancels the countdown loop and any in-flight computation, then waits
// for them. Safe to call repeatedly.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}
