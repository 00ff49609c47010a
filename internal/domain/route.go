package domain

import "time"

// Travel profile used when querying the directions provider.
type RouteType string

const (
	RouteFastest    RouteType = "fastest"
	RouteShortest   RouteType = "shortest"
	RouteBalanced   RouteType = "balanced"
	RoutePedestrian RouteType = "pedestrian"
	RouteBicycle    RouteType = "bicycle"
)

// NormalizeRouteType maps unknown or empty profiles to the fastest profile.
func NormalizeRouteType(s string) RouteType {
	switch RouteType(s) {
	case RouteFastest, RouteShortest, RouteBalanced, RoutePedestrian, RouteBicycle:
		return RouteType(s)
	default:
		return RouteFastest
	}
}

// A single stop on a shared route. Ordered sequences of at least two stops
// form a route; stops are immutable once a route is loaded.
type Stop struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (s Stop) Coordinates() Coordinates {
	return Coordinates{Lat: s.Lat, Lng: s.Lng}
}

// RouteConfig is the decoded payload of a shareable route token.
// It is read-only input to the tracking core and is never mutated.
type RouteConfig struct {
	Stops         []Stop     `json:"stops"`
	RouteType     RouteType  `json:"routeType"`
	DepartureTime *time.Time `json:"departureTime,omitempty"`
	CompanyName   string     `json:"companyName,omitempty"`
}

// The directions segment between two consecutive stops.
type Leg struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceMiles float64 `json:"distanceMiles"`
	TimeMinutes   float64 `json:"timeMinutes"`
}

// Aggregate of all legs for a route. A RouteResult is regenerated atomically
// on every refresh cycle; an in-flight recompute is never observed until all
// legs resolve.
type RouteResult struct {
	TotalDistanceMiles float64 `json:"totalDistanceMiles"`
	TotalTimeMinutes   float64 `json:"totalTimeMinutes"`
	Legs               []Leg   `json:"legs"`
}

// Simulated vehicle state derived entirely from a RouteResult plus elapsed
// time. Recomputed every simulation tick; never an independent source of
// truth.
type DriverPosition struct {
	Lat                   float64 `json:"lat"`
	Lng                   float64 `json:"lng"`
	CurrentLegIndex       int     `json:"currentLegIndex"`
	ProgressInLeg         float64 `json:"progressInLeg"`
	CompletedStops        int     `json:"completedStops"`
	DistanceTraveledMiles float64 `json:"distanceTraveledMiles"`
	TimeElapsedMinutes    float64 `json:"timeElapsedMinutes"`
}

// A reachable-area polygon for a single travel-time threshold.
type IsolinePolygon struct {
	TimeMinutes int           `json:"timeMinutes"`
	Color       string        `json:"color"`
	Coordinates []Coordinates `json:"coordinates"`
}
