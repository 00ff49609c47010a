package sim

import (
	"math"
	"testing"

	"route-tracking-service/internal/domain"
)

func threeStopRoute() ([]domain.Stop, []domain.Leg) {
	stops := []domain.Stop{
		{Address: "A", Lat: 40.0, Lng: -105.0},
		{Address: "B", Lat: 40.1, Lng: -105.0},
		{Address: "C", Lat: 40.2, Lng: -105.0},
	}
	legs := []domain.Leg{
		{From: "A", To: "B", DistanceMiles: 5, TimeMinutes: 10},
		{From: "B", To: "C", DistanceMiles: 10, TimeMinutes: 20},
	}
	return stops, legs
}

func TestPositionAtMidFirstLeg(t *testing.T) {
	stops, legs := threeStopRoute()

	pos := PositionAt(stops, legs, 5)

	if pos.CurrentLegIndex != 0 {
		t.Fatalf("currentLegIndex = %d, want 0", pos.CurrentLegIndex)
	}
	if pos.ProgressInLeg != 0.5 {
		t.Fatalf("progressInLeg = %v, want 0.5", pos.ProgressInLeg)
	}
	if pos.CompletedStops != 0 {
		t.Fatalf("completedStops = %d, want 0", pos.CompletedStops)
	}
	// Midpoint of A and B.
	if math.Abs(pos.Lat-40.05) > 1e-9 || math.Abs(pos.Lng+105.0) > 1e-9 {
		t.Fatalf("position = (%v, %v), want (40.05, -105)", pos.Lat, pos.Lng)
	}
	if math.Abs(pos.DistanceTraveledMiles-2.5) > 1e-9 {
		t.Fatalf("distanceTraveled = %v, want 2.5", pos.DistanceTraveledMiles)
	}
}

func TestPositionAtMidSecondLeg(t *testing.T) {
	stops, legs := threeStopRoute()

	pos := PositionAt(stops, legs, 25)

	if pos.CurrentLegIndex != 1 {
		t.Fatalf("currentLegIndex = %d, want 1", pos.CurrentLegIndex)
	}
	if pos.ProgressInLeg != 0.75 {
		t.Fatalf("progressInLeg = %v, want 0.75", pos.ProgressInLeg)
	}
	if pos.CompletedStops != 1 {
		t.Fatalf("completedStops = %d, want 1", pos.CompletedStops)
	}
	if math.Abs(pos.DistanceTraveledMiles-12.5) > 1e-9 {
		t.Fatalf("distanceTraveled = %v, want 12.5", pos.DistanceTraveledMiles)
	}
}

func TestPositionPinsToFinalStop(t *testing.T) {
	stops, legs := threeStopRoute()

	pos := PositionAt(stops, legs, 40)

	if pos.Lat != 40.2 || pos.Lng != -105.0 {
		t.Fatalf("position = (%v, %v), want exact final stop (40.2, -105)", pos.Lat, pos.Lng)
	}
	if pos.ProgressInLeg != 1 {
		t.Fatalf("progressInLeg = %v, want 1", pos.ProgressInLeg)
	}
	if pos.CompletedStops != 2 {
		t.Fatalf("completedStops = %d, want 2", pos.CompletedStops)
	}
	if math.Abs(pos.DistanceTraveledMiles-15) > 1e-9 {
		t.Fatalf("distanceTraveled = %v, want route total 15", pos.DistanceTraveledMiles)
	}
	if math.Abs(pos.TimeElapsedMinutes-30) > 1e-9 {
		t.Fatalf("timeElapsed = %v, want route total 30", pos.TimeElapsedMinutes)
	}
}

func TestPositionClampsNegativeElapsed(t *testing.T) {
	stops, legs := threeStopRoute()

	// Departure in the future: vehicle waits at the first stop.
	pos := PositionAt(stops, legs, -15)

	if pos.Lat != 40.0 || pos.Lng != -105.0 {
		t.Fatalf("position = (%v, %v), want first stop (40, -105)", pos.Lat, pos.Lng)
	}
	if pos.ProgressInLeg != 0 {
		t.Fatalf("progressInLeg = %v, want 0", pos.ProgressInLeg)
	}
	if pos.TimeElapsedMinutes != 0 {
		t.Fatalf("timeElapsed = %v, want 0", pos.TimeElapsedMinutes)
	}
}

func TestPositionZeroDurationLeg(t *testing.T) {
	stops := []domain.Stop{
		{Address: "A", Lat: 40.0, Lng: -105.0},
		{Address: "A again", Lat: 40.0, Lng: -105.0},
		{Address: "B", Lat: 40.2, Lng: -105.0},
	}
	legs := []domain.Leg{
		{From: "A", To: "A again", DistanceMiles: 0, TimeMinutes: 0},
		{From: "A again", To: "B", DistanceMiles: 10, TimeMinutes: 20},
	}

	pos := PositionAt(stops, legs, 0)

	if math.IsNaN(pos.ProgressInLeg) || math.IsNaN(pos.Lat) || math.IsNaN(pos.Lng) {
		t.Fatalf("zero-duration leg produced NaN: %+v", pos)
	}
	if pos.ProgressInLeg != 1 {
		t.Fatalf("progressInLeg = %v, want 1 for zero-duration leg", pos.ProgressInLeg)
	}
	if pos.CurrentLegIndex != 0 {
		t.Fatalf("currentLegIndex = %d, want the zero-duration leg itself", pos.CurrentLegIndex)
	}
	if pos.Lat != 40.0 || pos.Lng != -105.0 {
		t.Fatalf("position = (%v, %v), want the duplicated stop", pos.Lat, pos.Lng)
	}

	// Any elapsed time beyond the boundary moves into the following leg.
	next := PositionAt(stops, legs, 5)
	if next.CurrentLegIndex != 1 {
		t.Fatalf("currentLegIndex = %d, want 1 past the zero-duration leg", next.CurrentLegIndex)
	}
	if next.CompletedStops != 1 {
		t.Fatalf("completedStops = %d, want 1", next.CompletedStops)
	}
	if next.ProgressInLeg != 0.25 {
		t.Fatalf("progressInLeg = %v, want 0.25", next.ProgressInLeg)
	}
}

func TestPositionBoundsAndMonotonicity(t *testing.T) {
	stops, legs := threeStopRoute()

	prevDistance := -1.0
	prevCompleted := -1
	for e := 0.0; e <= 30.0; e += 0.25 {
		pos := PositionAt(stops, legs, e)

		if pos.ProgressInLeg < 0 || pos.ProgressInLeg > 1 {
			t.Fatalf("elapsed=%v: progressInLeg %v out of [0,1]", e, pos.ProgressInLeg)
		}
		if pos.CompletedStops < 0 || pos.CompletedStops > len(stops)-1 {
			t.Fatalf("elapsed=%v: completedStops %d out of range", e, pos.CompletedStops)
		}
		if pos.DistanceTraveledMiles < prevDistance {
			t.Fatalf("elapsed=%v: distance decreased %v -> %v", e, prevDistance, pos.DistanceTraveledMiles)
		}
		if pos.CompletedStops < prevCompleted {
			t.Fatalf("elapsed=%v: completedStops decreased %d -> %d", e, prevCompleted, pos.CompletedStops)
		}
		prevDistance = pos.DistanceTraveledMiles
		prevCompleted = pos.CompletedStops
	}
}
