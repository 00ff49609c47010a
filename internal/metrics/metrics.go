// Package metrics exposes Prometheus instrumentation for the tracking
// service. The collector is optional everywhere: a nil *Collector disables
// instrumentation without extra branching at call sites.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	ActiveSessions prometheus.Gauge

	SessionsOpened prometheus.Counter
	SessionsClosed prometheus.Counter

	TicksTotal   prometheus.Counter
	TickDuration prometheus.Histogram

	RouteRefreshes prometheus.Counter
	RefreshErrors  prometheus.Counter

	DirectionsCalls  prometheus.Counter
	DirectionsErrors prometheus.Counter
	IsolineCalls     prometheus.Counter
	IsolineErrors    prometheus.Counter

	PositionsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_active_sessions",
			Help: "Number of currently open tracking sessions.",
		}),
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_sessions_opened_total",
			Help: "Total tracking sessions opened.",
		}),
		SessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_sessions_closed_total",
			Help: "Total tracking sessions closed.",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_simulation_ticks_total",
			Help: "Total simulation ticks processed.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_tick_duration_seconds",
			Help:    "Duration of simulation tick computations.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		}),
		RouteRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_route_refreshes_total",
			Help: "Total route recomputations (initial, manual, and timed).",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_route_refresh_errors_total",
			Help: "Total route recomputations that surfaced an error.",
		}),
		DirectionsCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_directions_requests_total",
			Help: "Total directions provider requests.",
		}),
		DirectionsErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_directions_errors_total",
			Help: "Total directions provider failures.",
		}),
		IsolineCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_isoline_requests_total",
			Help: "Total isoline provider requests.",
		}),
		IsolineErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_isoline_errors_total",
			Help: "Total isoline provider failures.",
		}),
		PositionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_positions_published_total",
			Help: "Total driver positions published to the message bus.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_position_publish_errors_total",
			Help: "Total publish failures.",
		}),
	}

	reg.MustRegister(
		c.ActiveSessions, c.SessionsOpened, c.SessionsClosed,
		c.TicksTotal, c.TickDuration,
		c.RouteRefreshes, c.RefreshErrors,
		c.DirectionsCalls, c.DirectionsErrors,
		c.IsolineCalls, c.IsolineErrors,
		c.PositionsPublished, c.PublishErrors,
	)

	return c
}

// Serve starts an HTTP server exposing /metrics on addr. The caller owns
// shutdown.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
