package dto

import "route-tracking-service/internal/domain"

// IsolineRequest asks for reachable-area polygons around an origin, one per
// time threshold (minutes).
type IsolineRequest struct {
	Origin        domain.Coordinates `json:"origin"`
	RangeMinutes  []int              `json:"rangeMinutes"`
	TransportMode string             `json:"transportMode,omitempty"`
}

type IsolineResponse struct {
	Polygons []domain.IsolinePolygon `json:"polygons"`
}

// GeocodeResponse is a resolved free-form address.
type GeocodeResponse struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
