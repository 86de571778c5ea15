// Package road implements the ordered vehicle container: per-tick movement
// driver, entry admission, preceding/following lookup, semaphore lookup,
// and end-of-road handoff.
package road

import (
	"math/rand"
	"sort"

	"github.com/cxd309/trafficsim/internal/shape"
	"github.com/cxd309/trafficsim/internal/trafficlight"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// Fixed look-ahead and safety-gap constants from the simulation kernel's
// physical model.
const (
	SafetyDistanceToIntersection     = 10.0
	SafetyDistanceAfterIntersection  = 5.0
	BrakingDistanceLookahead         = 20.0
)

// EndHandler is the junction-side contract a Road's EndJunction satisfies.
// Defined here (not in package junction) so Road has no dependency on the
// junction variants — they depend on Road instead, avoiding a cycle.
type EndHandler interface {
	// HandleVehicle is invoked when v has overshot incoming's length by
	// excess metres. Implementations route v to an outgoing road, or put
	// it in GivingWay on incoming if admission must wait.
	HandleVehicle(incoming *Road, v *vehicle.Vehicle, excess, t, dt float64)
}

// Road is the ordered vehicle container described by the data model.
type Road struct {
	ID              int
	Length          float64
	VehicleDistance float64
	SpeedLimit      float64
	Priority        int
	IsStartingRoad  bool

	Shape shape.Shape

	Lanes         [][]*vehicle.Vehicle // each lane ordered by descending position
	TrafficLights []trafficlight.TrafficLight

	EndJunction EndHandler
}

// New constructs a Road with a single lane slot (the reference
// implementation's own configuration) and the default straight-line shape.
func New(id int, length, vehicleDistance, speedLimit float64, priority int, isStartingRoad bool) *Road {
	return &Road{
		ID:              id,
		Length:          length,
		VehicleDistance: vehicleDistance,
		SpeedLimit:      speedLimit,
		Priority:        priority,
		IsStartingRoad:  isStartingRoad,
		Shape:           shape.Default(length),
		Lanes:           [][]*vehicle.Vehicle{{}},
	}
}

// NumberOfLanes returns the configured lane count.
func (r *Road) NumberOfLanes() int { return len(r.Lanes) }

// AddSemaphore appends a traffic light to the road and keeps the slice
// sorted by position (end-of-road sentinel last). This is one of two
// distinctly named operations that together replace the reference
// implementation's shadowed addSemaphore/addSemaphoreAtEnd overload pair.
func (r *Road) AddSemaphore(tl trafficlight.TrafficLight) {
	r.TrafficLights = append(r.TrafficLights, tl)
	sort.SliceStable(r.TrafficLights, func(i, j int) bool {
		pi, pj := r.TrafficLights[i].Position, r.TrafficLights[j].Position
		if pi == trafficlight.EndOfRoad {
			return false
		}
		if pj == trafficlight.EndOfRoad {
			return true
		}
		return pi < pj
	})
}

// AddSemaphoreAtEnd appends a traffic light positioned at the end of the
// road. See AddSemaphore's doc comment.
func (r *Road) AddSemaphoreAtEnd(green, red, yellow, startTime float64) {
	r.AddSemaphore(trafficlight.TrafficLight{
		Position: trafficlight.EndOfRoad, Green: green, Red: red, Yellow: yellow, StartTime: startTime,
	})
}

// NextSemaphore returns the first traffic light at position >= fromPos, and
// whether one exists.
func (r *Road) NextSemaphore(fromPos float64) (trafficlight.TrafficLight, bool) {
	for _, tl := range r.TrafficLights {
		if tl.ResolvedPosition(r.Length) >= fromPos {
			return tl, true
		}
	}
	return trafficlight.TrafficLight{}, false
}

// GetCoordinatesByPosition maps a 1-D offset to the road's planar shape.
func (r *Road) GetCoordinatesByPosition(pos float64) shape.Point {
	return r.Shape.PointAt(pos)
}

// PrecedingVehicle returns the vehicle immediately ahead of v in its lane,
// or ok=false if v has no predecessor (v is first in lane, or not found).
// Fixes the reference implementation's bug of falling back to
// vehicles[-1] when v is not found in the lane.
func (r *Road) PrecedingVehicle(laneIdx int, v *vehicle.Vehicle) (*vehicle.Vehicle, bool) {
	lane := r.Lanes[laneIdx]
	for i, cur := range lane {
		if cur == v {
			if i == 0 {
				return nil, false
			}
			return lane[i-1], true
		}
	}
	return nil, false
}

// GetLastVehicle returns the rearmost vehicle in laneIdx (smallest
// position), or ok=false if the lane is empty. Fixes the reference
// implementation's double-sort-into-None bug by sorting a copy.
func (r *Road) GetLastVehicle(laneIdx int) (*vehicle.Vehicle, bool) {
	lane := r.Lanes[laneIdx]
	if len(lane) == 0 {
		return nil, false
	}
	sorted := make([]*vehicle.Vehicle, len(lane))
	copy(sorted, lane)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return sorted[0], true
}

// VehiclesAt returns the vehicles in any lane whose position lies in
// (start, end], used for sector-based history sampling.
func (r *Road) VehiclesAt(start, end float64) []*vehicle.Vehicle {
	var out []*vehicle.Vehicle
	for _, lane := range r.Lanes {
		for _, v := range lane {
			if v.Position > start && v.Position <= end {
				out = append(out, v)
			}
		}
	}
	return out
}

// removeFromLane splices v out of laneIdx, preserving order.
func (r *Road) removeFromLane(laneIdx int, v *vehicle.Vehicle) {
	lane := r.Lanes[laneIdx]
	for i, cur := range lane {
		if cur == v {
			r.Lanes[laneIdx] = append(lane[:i], lane[i+1:]...)
			return
		}
	}
}

// insertIntoLane inserts v into laneIdx keeping descending-position order.
func (r *Road) insertIntoLane(laneIdx int, v *vehicle.Vehicle) {
	lane := r.Lanes[laneIdx]
	i := sort.Search(len(lane), func(i int) bool { return lane[i].Position <= v.Position })
	lane = append(lane, nil)
	copy(lane[i+1:], lane[i:])
	lane[i] = v
	r.Lanes[laneIdx] = lane
}

// WaitForNextRoad puts v into GivingWay on this road at a position clamped
// to never tail-gate the vehicle behind it, and never beyond road length.
func (r *Road) WaitForNextRoad(laneIdx int, v *vehicle.Vehicle, desiredPos float64) {
	pos := desiredPos
	if follower, ok := r.followerOf(laneIdx, v); ok {
		safeBehindFollower := follower.Position + follower.Length + r.VehicleDistance
		if pos < safeBehindFollower {
			pos = safeBehindFollower
		}
	}
	if pos > r.Length {
		pos = r.Length
	}
	v.GiveWay(pos)
}

// GiveWay puts v into GivingWay at this road's full length, used when a
// lower-priority incoming road must yield without a concrete handoff
// position yet decided.
func (r *Road) GiveWay(v *vehicle.Vehicle) {
	v.GiveWay(r.Length)
}

// followerOf returns the vehicle immediately behind v in its lane.
func (r *Road) followerOf(laneIdx int, v *vehicle.Vehicle) (*vehicle.Vehicle, bool) {
	lane := r.Lanes[laneIdx]
	for i, cur := range lane {
		if cur == v {
			if i+1 < len(lane) {
				return lane[i+1], true
			}
			return nil, false
		}
	}
	return nil, false
}

// RemoveVehicle splices v out of whichever lane currently holds it. A no-op
// if v is not present.
func (r *Road) RemoveVehicle(v *vehicle.Vehicle) {
	for laneIdx := range r.Lanes {
		r.removeFromLane(laneIdx, v)
	}
}

// EndSemaphore returns the traffic light positioned at this road's end
// sentinel, if one was configured.
func (r *Road) EndSemaphore() (trafficlight.TrafficLight, bool) {
	for _, tl := range r.TrafficLights {
		if tl.Position == trafficlight.EndOfRoad {
			return tl, true
		}
	}
	return trafficlight.TrafficLight{}, false
}

// IsGreenAt reports whether this road may discharge into its downstream
// junction at t. A road with no end semaphore is always green. Threading t
// through here (rather than calling IsGreen with no time argument) fixes
// the reference implementation's priority-check bug at Intersection
// arbitration.
func (r *Road) IsGreenAt(t float64) bool {
	tl, ok := r.EndSemaphore()
	if !ok {
		return true
	}
	return tl.IsGreen(t)
}

// HasOutgoingVehicles is the probabilistic crossing indicator of §4.5: a
// vehicle counts as "outgoing" for certain if its free-flow projection
// already exceeds the road, and with linearly increasing probability as it
// approaches within SafetyDistanceToIntersection of the end.
func (r *Road) HasOutgoingVehicles(dt float64, rng *rand.Rand) bool {
	for _, lane := range r.Lanes {
		for _, v := range lane {
			proj := v.CalculatePosition(v.Acceleration, dt)
			if proj > r.Length {
				return true
			}
			threshold := r.Length - SafetyDistanceToIntersection
			if proj > threshold {
				p := (proj - threshold) / SafetyDistanceToIntersection
				if rng.Float64() < p {
					return true
				}
			}
		}
	}
	return false
}
