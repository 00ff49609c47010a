package api

import (
	"net/http"

	"route-tracking-service/internal/api/handlers"
	"route-tracking-service/internal/metrics"
	"route-tracking-service/internal/ports"
	"route-tracking-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	sessions *services.Manager,
	isolines ports.IsolineProvider,
	geocoder ports.Geocoder,
	m *metrics.Collector,
) http.Handler {
	mux := http.NewServeMux()

	trackHandler := &handlers.TrackHandler{Sessions: sessions}
	isolineHandler := &handlers.IsolineHandler{Provider: isolines, Metrics: m}
	geocodeHandler := &handlers.GeocodeHandler{Geocoder: geocoder}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/track", trackHandler.Open)
	mux.HandleFunc("/track/status", trackHandler.Status)
	mux.HandleFunc("/track/refresh", trackHandler.Refresh)
	mux.HandleFunc("/track/pause", trackHandler.Pause)
	mux.HandleFunc("/track/resume", trackHandler.Resume)
	mux.HandleFunc("/track/stop", trackHandler.Stop)
	mux.HandleFunc("/isolines", isolineHandler.Calculate)
	mux.HandleFunc("/geocode", geocodeHandler.Lookup)

	return loggingMiddleware(mux)
}
