package services

import (
	"context"
	"log"
	"sync"
	"time"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/ports"
	"route-tracking-service/internal/sim"
	"route-tracking-service/internal/token"
)

// One live-tracking view of a shared route: the slow refresh cycle and the
// fast simulation tick, wired together so every applied RouteResult re-seeds
// the tracker.
type Session struct {
	Token   string
	Config  domain.RouteConfig
	Coord   *Coordinator
	Tracker *sim.Tracker

	cancel context.CancelFunc
}

// Tuning knobs for sessions. Zero values get the live-tracking defaults:
// 2s tick, 0.5 simulated minutes per tick, 300s refresh interval.
type SessionOptions struct {
	TickEvery      time.Duration
	StepMinutes    float64
	RefreshSeconds int
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.TickEvery <= 0 {
		o.TickEvery = 2 * time.Second
	}
	if o.StepMinutes <= 0 {
		o.StepMinutes = 0.5
	}
	if o.RefreshSeconds <= 0 {
		o.RefreshSeconds = 300
	}
	return o
}

// Manager owns all open tracking sessions, keyed by their share token.
type Manager struct {
	provider ports.DirectionsProvider
	pub      ports.PositionPublisher
	metrics  *metrics.Collector
	opts     SessionOptions

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewManager wires a session manager. pub and m may be nil.
func NewManager(provider ports.DirectionsProvider, pub ports.PositionPublisher, m *metrics.Collector, opts SessionOptions) *Manager {
	return &Manager{
		provider: provider,
		pub:      pub,
		metrics:  m,
		opts:     opts.withDefaults(),
		sessions: make(map[string]*Session),
	}
}

// Open decodes a share token and starts a tracking session for it. Opening
// an already-tracked token returns the existing session. Decode and
// validation failures are terminal; no session is created.
//
// The session outlives ctx: a session opened by an HTTP request keeps
// running after the response is written. Only Close and Shutdown end it.
func (m *Manager) Open(ctx context.Context, rawToken string) (*Session, error) {
	cfg, err := token.Decode(rawToken)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[rawToken]; ok {
		return s, nil
	}

	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	departure := DepartureBase(cfg, time.Now())
	tracker := sim.NewTracker(rawToken, m.opts.TickEvery, m.opts.StepMinutes, m.pub, m.metrics)
	coord := NewCoordinator(cfg, departure, m.provider, m.metrics, m.opts.RefreshSeconds,
		func(result domain.RouteResult, departure time.Time) {
			tracker.SetRoute(cfg.Stops, result.Legs, departure)
		})

	s := &Session{
		Token:   rawToken,
		Config:  cfg,
		Coord:   coord,
		Tracker: tracker,
		cancel:  cancel,
	}

	coord.Start(sctx)
	tracker.Start(sctx)

	m.sessions[rawToken] = s
	if m.metrics != nil {
		m.metrics.SessionsOpened.Inc()
		m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	log.Printf("session opened: stops=%d routeType=%s", len(cfg.Stops), cfg.RouteType)
	return s, nil
}

// Get looks up an open session by its share token.
func (m *Manager) Get(rawToken string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[rawToken]
	return s, ok
}

// Close tears one session down. Returns false when the token is not being
// tracked; closing twice is safe.
func (m *Manager) Close(rawToken string) bool {
	m.mu.Lock()
	s, ok := m.sessions[rawToken]
	if ok {
		delete(m.sessions, rawToken)
		if m.metrics != nil {
			m.metrics.SessionsClosed.Inc()
			m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
		}
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		s.cancel()
		s.Coord.Stop()
		s.Tracker.Stop()
	}()
	return true
}

// Shutdown closes every session and waits for their loops to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	tokens := make([]string, 0, len(m.sessions))
	for tok := range m.sessions {
		tokens = append(tokens, tok)
	}
	m.mu.Unlock()

	for _, tok := range tokens {
		m.Close(tok)
	}
	m.wg.Wait()
}
