package sim

import (
	"context"
	"log"
	"sync"
	"time"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/ports"
)

// Tracker advances a simulated vehicle along a route on a fixed tick.
// Simulated speed is decoupled from wall-clock tick rate: each tick adds a
// fixed number of simulated minutes. The tick goroutine is the only writer
// of the driver position; readers get value snapshots.
type Tracker struct {
	routeToken  string
	tickEvery   time.Duration
	stepMinutes float64
	pub         ports.PositionPublisher
	metrics     *metrics.Collector

	mu        sync.Mutex
	stops     []domain.Stop
	legs      []domain.Leg
	seeded    bool
	elapsed   float64
	paused    bool
	pos       domain.DriverPosition
	haveRoute bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker builds a tracker for one shared route. pub and m may be nil.
func NewTracker(routeToken string, tickEvery time.Duration, stepMinutes float64, pub ports.PositionPublisher, m *metrics.Collector) *Tracker {
	return &Tracker{
		routeToken:  routeToken,
		tickEvery:   tickEvery,
		stepMinutes: stepMinutes,
		pub:         pub,
		metrics:     m,
	}
}

// SetRoute installs a freshly computed route. The first route seeds elapsed
// time from the departure timestamp, so a link opened after departure shows
// an already-progressed vehicle. Later routes keep the simulated clock and
// only re-derive the position from the new legs.
func (t *Tracker) SetRoute(stops []domain.Stop, legs []domain.Leg, departure time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stops = stops
	t.legs = legs
	t.haveRoute = len(stops) >= 2 && len(legs) == len(stops)-1

	if !t.seeded {
		t.elapsed = 0
		if !departure.IsZero() {
			if since := time.Since(departure).Minutes(); since > 0 {
				t.elapsed = since
			}
		}
		t.seeded = true
	}

	if t.haveRoute {
		t.pos = PositionAt(t.stops, t.legs, t.elapsed)
	}
}

// Start launches the tick loop. It is a no-op when already running.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		tick := time.NewTicker(t.tickEvery)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				t.step()
			}
		}
	}()
}

// step advances the simulated clock one increment and re-derives the
// position. Paused trackers and routes that have reached the final stop do
// not advance; the simulated clock never moves backwards.
func (t *Tracker) step() {
	start := time.Now()

	t.mu.Lock()
	if t.paused || !t.haveRoute {
		t.mu.Unlock()
		return
	}
	total := totalTime(t.legs)
	if t.elapsed < total {
		t.elapsed += t.stepMinutes
	}
	t.pos = PositionAt(t.stops, t.legs, t.elapsed)
	pos := t.pos
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.TicksTotal.Inc()
		t.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
	if t.pub != nil {
		if err := t.pub.PublishPosition(t.routeToken, pos); err != nil {
			log.Printf("publish position failed: token=%s err=%v", t.routeToken, err)
		}
	}
}

// Pause halts simulated time without tearing the tick loop down.
func (t *Tracker) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()
}

// Resume restarts simulated time after a pause.
func (t *Tracker) Resume() {
	t.mu.Lock()
	t.paused = false
	t.mu.Unlock()
}

// Paused reports whether the simulation is currently halted.
func (t *Tracker) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Stop cancels the tick loop and waits for it to exit. Safe to call
// repeatedly and before Start.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	t.wg.Wait()
}

// Position returns the latest derived driver state. The bool reports
// whether a route has been installed yet.
func (t *Tracker) Position() (domain.DriverPosition, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos, t.haveRoute
}

func totalTime(legs []domain.Leg) float64 {
	var total float64
	for _, l := range legs {
		total += l.TimeMinutes
	}
	return total
}
