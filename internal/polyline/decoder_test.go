package polyline

import (
	"errors"
	"math"
	"testing"

	"route-tracking-service/internal/domain"
)

func TestDecodeTwoPointPrecision5(t *testing.T) {
	// version=1, precision=5, points (52.5, 13.4) -> (52.51, 13.41)
	points, err := Decode("BFg9tgKgm5xCw-Bw-B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Coordinates{
		{Lat: 52.5, Lng: 13.4},
		{Lat: 52.51, Lng: 13.41},
	}

	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i := range want {
		if math.Abs(points[i].Lat-want[i].Lat) > 1e-5 {
			t.Fatalf("point %d lat = %v, want %v", i, points[i].Lat, want[i].Lat)
		}
		if math.Abs(points[i].Lng-want[i].Lng) > 1e-5 {
			t.Fatalf("point %d lng = %v, want %v", i, points[i].Lng, want[i].Lng)
		}
	}
}

func TestDecodeReferencePolyline(t *testing.T) {
	// Reference vector from the flexible-polyline format documentation.
	points, err := Decode("BFoz5xJ67i1B1B7PzIhaxL7Y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Coordinates{
		{Lat: 50.10228, Lng: 8.69821},
		{Lat: 50.10201, Lng: 8.69567},
		{Lat: 50.10063, Lng: 8.69150},
		{Lat: 50.09878, Lng: 8.68752},
	}

	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i := range want {
		if math.Abs(points[i].Lat-want[i].Lat) > 1e-5 {
			t.Fatalf("point %d lat = %v, want %v", i, points[i].Lat, want[i].Lat)
		}
		if math.Abs(points[i].Lng-want[i].Lng) > 1e-5 {
			t.Fatalf("point %d lng = %v, want %v", i, points[i].Lng, want[i].Lng)
		}
	}
}

func TestDecodeRejectsInvalidCharacter(t *testing.T) {
	// '!' is outside the 64-symbol alphabet.
	_, err := Decode("BFg9t!gK")
	if err == nil {
		t.Fatal("expected error for invalid character")
	}
	if !IsMalformed(err) {
		t.Fatalf("expected malformed-polyline error, got %v", err)
	}
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected error to wrap domain.ErrDecode, got %v", err)
	}
}

func TestDecodeRejectsTruncatedVarint(t *testing.T) {
	// 'g' (index 32) has the continuation bit set, so the stream ends
	// mid-varint.
	_, err := Decode("BFg")
	if err == nil {
		t.Fatal("expected error for truncated varint")
	}
	if !IsMalformed(err) {
		t.Fatalf("expected malformed-polyline error, got %v", err)
	}
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	if _, err := Decode(""); !IsMalformed(err) {
		t.Fatalf("expected malformed-polyline error, got %v", err)
	}
}

func TestDecodeSkipsThirdDimension(t *testing.T) {
	// Same two points as the precision-5 test, re-encoded with a third
	// dimension (type=1 altitude, precision 0): header = 5 | 1<<8 = 261.
	// Altitude deltas are 10 and 5 (zigzag 20, 10 -> "U", "K").
	points, err := Decode("BlIg9tgKgm5xCUw-Bw-BK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if math.Abs(points[1].Lat-52.51) > 1e-5 || math.Abs(points[1].Lng-13.41) > 1e-5 {
		t.Fatalf("point 1 = %+v, want {52.51 13.41}", points[1])
	}
}
