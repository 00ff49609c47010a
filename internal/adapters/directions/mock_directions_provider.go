package directions

import (
	"context"
	"fmt"
	"sync"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/ports"
)

type MockLeg struct {
	From, To string // "lat,lng" keys
	Miles    float64
	Minutes  float64
}

// MockDirectionsProvider serves canned leg estimates for tests. Legs absent
// from the table fail with domain.ErrDirectionsUnavailable.
type MockDirectionsProvider struct {
	mu    sync.Mutex
	m     map[string]ports.LegEstimate
	calls int
}

func NewMockDirectionsProvider(legs []MockLeg) *MockDirectionsProvider {
	m := make(map[string]ports.LegEstimate, len(legs))
	for _, l := range legs {
		m[l.From+"|"+l.To] = ports.LegEstimate{DistanceMiles: l.Miles, TimeMinutes: l.Minutes}
	}
	return &MockDirectionsProvider{m: m}
}

func (p *MockDirectionsProvider) GetRoute(ctx context.Context, from, to domain.Coordinates, routeType domain.RouteType) (ports.LegEstimate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	key := from.LatLng() + "|" + to.LatLng()
	est, ok := p.m[key]
	if !ok {
		return ports.LegEstimate{}, fmt.Errorf("%w: no mock leg %q", domain.ErrDirectionsUnavailable, key)
	}
	return est, nil
}

// Calls reports how many GetRoute invocations the mock has served.
func (p *MockDirectionsProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
