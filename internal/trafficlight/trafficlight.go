// Package trafficlight implements the periodic three-phase schedule queried
// by absolute simulation time.
package trafficlight

import "math"

// Phase is one of the three states a TrafficLight can be in at a given time.
type Phase int

const (
	Red Phase = iota
	Yellow
	Green
)

func (p Phase) String() string {
	switch p {
	case Green:
		return "Green"
	case Yellow:
		return "Yellow"
	default:
		return "Red"
	}
}

// EndOfRoad is the sentinel position meaning "the light sits at the end of
// the road", resolved against the road's length by the caller.
const EndOfRoad = -1

// TrafficLight is a deterministic pure function of absolute time.
type TrafficLight struct {
	Position  float64 // metres along its road; EndOfRoad sentinel resolved by caller
	Green     float64 // seconds
	Yellow    float64 // seconds
	Red       float64 // seconds
	StartTime float64 // seconds
}

// CycleLength returns the total period of the light.
func (tl TrafficLight) CycleLength() float64 {
	return tl.Green + tl.Yellow + tl.Red
}

// State returns the phase active at absolute time t.
func (tl TrafficLight) State(t float64) Phase {
	if t < tl.StartTime {
		return Red
	}
	cycle := tl.CycleLength()
	if cycle <= 0 {
		return Red
	}
	tau := math.Mod(t-tl.StartTime, cycle)
	switch {
	case tau < tl.Green:
		return Green
	case tau < tl.Green+tl.Yellow:
		return Yellow
	default:
		return Red
	}
}

// IsGreen reports whether the light is green at t.
func (tl TrafficLight) IsGreen(t float64) bool { return tl.State(t) == Green }

// IsRed reports whether the light is red at t.
func (tl TrafficLight) IsRed(t float64) bool { return tl.State(t) == Red }

// ResolvedPosition returns tl.Position, or roadLength when Position is the
// EndOfRoad sentinel.
func (tl TrafficLight) ResolvedPosition(roadLength float64) float64 {
	if tl.Position == EndOfRoad {
		return roadLength
	}
	return tl.Position
}

// Opposite constructs the sibling light for a crossing approach: its green
// lasts tl's red minus yellow (or tl's full red if that is not positive),
// its red lasts tl's green, and it keeps tl's yellow, position and start
// time. The two lights are not phase-shifted: both begin their cycle green
// at StartTime, and when the red-minus-yellow green is used their cycle
// lengths differ by Yellow.
func Opposite(tl TrafficLight) TrafficLight {
	newGreen := tl.Red - tl.Yellow
	if newGreen <= 0 {
		newGreen = tl.Red
	}
	return TrafficLight{
		Position:  tl.Position,
		Green:     newGreen,
		Yellow:    tl.Yellow,
		Red:       tl.Green,
		StartTime: tl.StartTime,
	}
}
