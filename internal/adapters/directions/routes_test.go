package directions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"route-tracking-service/internal/domain"
	"route-tracking-service/internal/ports"
)

func TestGetRoutePrimaryEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/directions/v2/route" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key, query=%v", r.URL.Query())
		}
		if r.URL.Query().Get("routeType") != "fastest" {
			t.Errorf("routeType = %q, want fastest", r.URL.Query().Get("routeType"))
		}
		fmt.Fprint(w, `{"route":{"distance":5.2,"time":12.5}}`)
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	est, err := c.GetRoute(context.Background(),
		domain.Coordinates{Lat: 40, Lng: -105},
		domain.Coordinates{Lat: 40.1, Lng: -105},
		domain.RouteFastest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.DistanceMiles != 5.2 || est.TimeMinutes != 12.5 {
		t.Fatalf("estimate = %+v, want {5.2 12.5}", est)
	}
}

func TestGetRouteFallsBackToRawSeconds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/directions/v2/route":
			// Primary returns an empty route.
			fmt.Fprint(w, `{"route":{"distance":0,"time":0}}`)
		case "/directions/v2/route/raw":
			// Raw endpoint reports 750 (seconds for any real leg).
			fmt.Fprint(w, `{"route":{"distance":5.2,"time":750}}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	est, err := c.GetRoute(context.Background(),
		domain.Coordinates{Lat: 40, Lng: -105},
		domain.Coordinates{Lat: 40.1, Lng: -105},
		domain.RouteFastest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.TimeMinutes != 12.5 {
		t.Fatalf("timeMinutes = %v, want 12.5 (750s converted)", est.TimeMinutes)
	}
}

func TestGetRouteRawSmallValuesStayMinutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/directions/v2/route":
			fmt.Fprint(w, `{}`)
		case "/directions/v2/route/raw":
			// Magnitude <= 100 is already minutes.
			fmt.Fprint(w, `{"route":{"distance":1.1,"time":7}}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	est, err := c.GetRoute(context.Background(),
		domain.Coordinates{Lat: 40, Lng: -105},
		domain.Coordinates{Lat: 40.1, Lng: -105},
		domain.RouteShortest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.TimeMinutes != 7 {
		t.Fatalf("timeMinutes = %v, want 7", est.TimeMinutes)
	}
}

func TestGetRouteBothEndpointsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.GetRoute(context.Background(),
		domain.Coordinates{Lat: 40, Lng: -105},
		domain.Coordinates{Lat: 40.1, Lng: -105},
		domain.RouteFastest)
	if !errors.Is(err, domain.ErrDirectionsUnavailable) {
		t.Fatalf("expected ErrDirectionsUnavailable, got %v", err)
	}
}

func TestGetRouteBalancedMapsToFastestProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("routeType"); got != "fastest" {
			t.Errorf("routeType = %q, want fastest for balanced", got)
		}
		fmt.Fprint(w, `{"route":{"distance":2,"time":4}}`)
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.GetRoute(context.Background(),
		domain.Coordinates{Lat: 40, Lng: -105},
		domain.Coordinates{Lat: 40.1, Lng: -105},
		domain.RouteBalanced); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type stubLegCache struct {
	data map[string]ports.LegEstimate
	puts int
}

func (s *stubLegCache) key(from, to string, rt domain.RouteType) string {
	return from + "|" + to + "|" + string(rt)
}

func (s *stubLegCache) Get(_ context.Context, from, to string, rt domain.RouteType) (ports.LegEstimate, bool, error) {
	est, ok := s.data[s.key(from, to, rt)]
	return est, ok, nil
}

func (s *stubLegCache) Put(_ context.Context, from, to string, rt domain.RouteType, est ports.LegEstimate) error {
	s.data[s.key(from, to, rt)] = est
	s.puts++
	return nil
}

func TestGetRouteUsesLegCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"route":{"distance":5,"time":10}}`)
	}))
	defer srv.Close()

	cache := &stubLegCache{data: make(map[string]ports.LegEstimate)}
	c, err := NewClient("test-key", srv.URL, cache, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	from := domain.Coordinates{Lat: 40, Lng: -105}
	to := domain.Coordinates{Lat: 40.1, Lng: -105}

	for i := 0; i < 3; i++ {
		if _, err := c.GetRoute(context.Background(), from, to, domain.RouteFastest); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if hits != 1 {
		t.Fatalf("provider hit %d times, want 1 (cache should serve repeats)", hits)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}
}

type stubGeocodeCache struct {
	data map[string]domain.Coordinates
	puts int
}

func (s *stubGeocodeCache) Get(_ context.Context, address string) (domain.Coordinates, bool, error) {
	coords, ok := s.data[address]
	return coords, ok, nil
}

func (s *stubGeocodeCache) Put(_ context.Context, address string, coords domain.Coordinates) error {
	s.data[address] = coords
	s.puts++
	return nil
}

func TestGeocodeUsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"results":[{"locations":[{"latLng":{"lat":39.75,"lng":-104.99}}]}]}`)
	}))
	defer srv.Close()

	cache := &stubGeocodeCache{data: make(map[string]domain.Coordinates)}
	c, err := NewClient("test-key", srv.URL, nil, cache)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := c.Geocode(context.Background(), "2001 Blake St"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if hits != 1 {
		t.Fatalf("provider hit %d times, want 1 (cache should serve repeats)", hits)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"locations":[]}]}`)
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, domain.ErrGeocodeNotFound) {
		t.Fatalf("expected ErrGeocodeNotFound, got %v", err)
	}
}

func TestGeocodeResolvesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocoding/v1/address" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"results":[{"locations":[{"latLng":{"lat":39.75,"lng":-104.99}}]}]}`)
	}))
	defer srv.Close()

	c, err := NewClient("test-key", srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	got, err := c.Geocode(context.Background(), "  2001  Blake St ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lat != 39.75 || got.Lng != -104.99 {
		t.Fatalf("coordinates = %+v", got)
	}
}
