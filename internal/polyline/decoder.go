// Package polyline decodes the flexible-polyline encoding used by the
// isoline service for route shapes and reachable-area outlines.
//
// The encoding is a string over a 64-character alphabet where each character
// carries 5 payload bits plus a continuation bit. A stream starts with an
// unsigned version varint and an unsigned header varint (coordinate
// precision in bits 0-3, third-dimension precision in bits 4-7, third
// dimension type in bits 8-10), followed by zigzag-encoded coordinate
// deltas.
package polyline

import (
	"errors"
	"fmt"
	"math"

	"route-tracking-service/internal/domain"
)

// ErrMalformedPolyline reports an input that is not valid flexible-polyline
// data. It wraps domain.ErrDecode so callers can match either.
var ErrMalformedPolyline = fmt.Errorf("%w: malformed polyline", domain.ErrDecode)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// continuation bit within a decoded 6-bit symbol
const contBit = 0x20

var symbolValues = buildSymbolTable()

func buildSymbolTable() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}

// Decode converts an encoded flexible polyline into an ordered list of
// coordinates. Third-dimension values, when present, are consumed and
// discarded. Decoding is all-or-nothing: any malformed input returns an
// error and no partial result.
func Decode(encoded string) ([]domain.Coordinates, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedPolyline)
	}

	r := &reader{src: encoded}

	// Format version is consumed but not otherwise used.
	if _, err := r.unsigned(); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}

	header, err := r.unsigned()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	precision := int(header & 0x0f)
	thirdDimPrecision := int((header >> 4) & 0x0f)
	thirdDimType := int((header >> 8) & 0x07)
	_ = thirdDimPrecision

	multiplier := math.Pow10(precision)
	hasThirdDim := thirdDimType != 0

	var points []domain.Coordinates
	var lat, lng int64

	for !r.done() {
		dLat, err := r.signed()
		if err != nil {
			return nil, fmt.Errorf("read latitude delta: %w", err)
		}
		lat += dLat

		dLng, err := r.signed()
		if err != nil {
			return nil, fmt.Errorf("read longitude delta: %w", err)
		}
		lng += dLng

		if hasThirdDim {
			if _, err := r.signed(); err != nil {
				return nil, fmt.Errorf("read third dimension delta: %w", err)
			}
		}

		points = append(points, domain.Coordinates{
			Lat: float64(lat) / multiplier,
			Lng: float64(lng) / multiplier,
		})
	}

	return points, nil
}

// reader walks the encoded string one varint at a time.
type reader struct {
	src string
	pos int
}

func (r *reader) done() bool { return r.pos >= len(r.src) }

// unsigned decodes one little-endian base64-ish varint: the low 5 bits of
// each symbol are payload, the 6th bit signals more chunks follow.
func (r *reader) unsigned() (uint64, error) {
	var value uint64
	var shift uint

	for {
		if r.pos >= len(r.src) {
			return 0, fmt.Errorf("%w: input ends mid-varint", ErrMalformedPolyline)
		}
		sym := symbolValues[r.src[r.pos]]
		if sym < 0 {
			return 0, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformedPolyline, r.src[r.pos], r.pos)
		}
		r.pos++

		value |= uint64(sym&0x1f) << shift
		if sym&contBit == 0 {
			return value, nil
		}
		shift += 5
		if shift > 63 {
			return 0, fmt.Errorf("%w: varint overflow", ErrMalformedPolyline)
		}
	}
}

// signed decodes an unsigned varint and undoes zigzag encoding.
func (r *reader) signed() (int64, error) {
	u, err := r.unsigned()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// IsMalformed reports whether err came from invalid polyline data rather
// than an I/O failure.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedPolyline)
}
