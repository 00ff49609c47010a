package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as "lat,lng" for external API compatibility.
func (c Coordinates) LatLng() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

// Validate checks that the pair is a real point on the globe.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return fmt.Errorf("%w: latitude is not a finite number", ErrValidation)
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: longitude is not a finite number", ErrValidation)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %.6f out of range [-90, 90]", ErrValidation, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %.6f out of range [-180, 180]", ErrValidation, c.Lng)
	}
	return nil
}
