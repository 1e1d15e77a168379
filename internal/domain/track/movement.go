package track

import (
	"math"
	"time"
)

// Position is a geographic point in decimal degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// start offset applied to the target to fake a helper approaching
// from a couple of kilometres away.
const (
	startOffsetLat = 0.018
	startOffsetLng = 0.012
)

// DefaultSpeed is the marker speed in degrees per second. Display
// only; roughly a car moving through a city.
const DefaultSpeed = 0.0004

// StartPosition derives the marker's initial point from the target.
// Deterministic: the same target always produces the same start.
func StartPosition(target Position) Position {
	return Position{
		Lat: target.Lat + startOffsetLat,
		Lng: target.Lng - startOffsetLng,
	}
}

// Step advances prev toward target by speed*elapsed, clamping at the
// target so the marker never overshoots. A pure function of its
// inputs, which is what keeps the simulation testable.
func Step(prev, target Position, elapsed time.Duration, speed float64) Position {
	dLat := target.Lat - prev.Lat
	dLng := target.Lng - prev.Lng

	remaining := math.Hypot(dLat, dLng)
	if remaining == 0 {
		return target
	}

	dist := speed * elapsed.Seconds()
	if dist >= remaining {
		return target
	}

	return Position{
		Lat: prev.Lat + dLat/remaining*dist,
		Lng: prev.Lng + dLng/remaining*dist,
	}
}

// Arrived reports whether the marker has reached the target.
func Arrived(pos, target Position) bool {
	return pos == target
}
