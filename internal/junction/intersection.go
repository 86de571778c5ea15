package junction

import (
	"math/rand"

	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// Intersection is the many-to-many junction: any of Incoming may route to
// any of Outgoing (drawn by Fluxes), arbitrated by traffic-light phase and
// priority plus a tail-gating check against the chosen outgoing road.
type Intersection struct {
	Incoming []*road.Road
	Outgoing []*road.Road
	Fluxes   []float64
	RNG      *rand.Rand
}

// NewIntersection constructs an Intersection connecting incoming to
// outgoing, routed by fluxes and drawn with rng.
func NewIntersection(incoming, outgoing []*road.Road, fluxes []float64, rng *rand.Rand) *Intersection {
	return &Intersection{Incoming: incoming, Outgoing: outgoing, Fluxes: fluxes, RNG: rng}
}

// getPriorityRoad returns the green incoming road with the lowest Priority
// number at t, or nil if none of Incoming is currently green. Ties keep the
// first road found at that priority. Fixes the reference implementation's
// bug of calling isGreen with no time argument (it always evaluated the
// phase at t=0), which made priority arbitration time-invariant.
func (j *Intersection) getPriorityRoad(t float64) *road.Road {
	var best *road.Road
	for _, r := range j.Incoming {
		if !r.IsGreenAt(t) {
			continue
		}
		if best == nil || r.Priority < best.Priority {
			best = r
		}
	}
	return best
}

// nextRoad draws the outgoing road v should be routed to.
func (j *Intersection) nextRoad() *road.Road {
	return j.Outgoing[pickByFlux(j.Fluxes, j.RNG)]
}

// canGo decides whether incoming may discharge v onto outgoing at position.
// It denies passage while any higher-priority (lower Priority number)
// incoming road is green and about to discharge its own vehicles, and
// separately denies passage if it would tail-gate the rearmost vehicle
// already on outgoing within SafetyDistanceAfterIntersection.
//
// Fixes the reference implementation's fallback of treating an empty
// outgoing road as a 1,000,000-metre phantom gap (a magic number that
// happened to always clear the tail-gating check); here an empty outgoing
// road is instead modeled directly as "nothing to tail-gate", so passage is
// granted unless the priority check above already denied it.
func (j *Intersection) canGo(incoming, outgoing *road.Road, t, position, dt float64) bool {
	for _, r := range j.Incoming {
		if r.Priority < incoming.Priority && r.IsGreenAt(t) && r.HasOutgoingVehicles(dt, j.RNG) {
			return false
		}
	}
	lastVeh, ok := outgoing.GetLastVehicle(0)
	if !ok {
		return true
	}
	safePos := lastVeh.Position - outgoing.VehicleDistance - lastVeh.Length - road.SafetyDistanceAfterIntersection
	return position <= safePos
}

// HandleVehicle routes v from incoming to a weighted-random outgoing road
// when canGo clears it, sinks v (with ArrivalTime set) when Intersection has
// no outgoing roads configured, and otherwise makes incoming give way for
// re-evaluation next tick.
func (j *Intersection) HandleVehicle(incoming *road.Road, v *vehicle.Vehicle, excess, t, dt float64) {
	if len(j.Outgoing) == 0 {
		incoming.RemoveVehicle(v)
		v.SetArrivalTime(t)
		return
	}
	next := j.nextRoad()
	if j.canGo(incoming, next, t, excess, dt) {
		admitOrWait(incoming, next, v, excess, t)
		return
	}
	incoming.GiveWay(v)
}
