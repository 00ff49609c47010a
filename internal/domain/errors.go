package domain

import "errors"

// Error taxonomy shared across packages. Callers match with errors.Is and
// wrap with fmt.Errorf("...: %w", err) to add context.
var (
	// A shareable token or an encoded polyline payload could not be decoded.
	ErrDecode = errors.New("decode error")

	// Input rejected before any network call (stop count, coordinate
	// bounds, range caps).
	ErrValidation = errors.New("validation error")

	// An address could not be resolved to coordinates.
	ErrGeocodeNotFound = errors.New("address not found")

	// A leg's directions query returned no usable distance/time. Recovered
	// as a zero-contribution leg; non-fatal for the overall route.
	ErrDirectionsUnavailable = errors.New("directions unavailable")
)
