package junction

import (
	"math/rand"

	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// NFurcation is the one-to-many junction: a single incoming road branches
// into len(Outgoing) outgoing roads, each vehicle routed to one of them by
// a weighted draw over Fluxes.
type NFurcation struct {
	Outgoing []*road.Road
	Fluxes   []float64
	RNG      *rand.Rand
}

// NewNFurcation constructs an NFurcation routing to outgoing by fluxes,
// drawing with rng.
func NewNFurcation(outgoing []*road.Road, fluxes []float64, rng *rand.Rand) *NFurcation {
	return &NFurcation{Outgoing: outgoing, Fluxes: fluxes, RNG: rng}
}

// nextRoad draws the outgoing road v should be routed to.
func (n *NFurcation) nextRoad() *road.Road {
	return n.Outgoing[pickByFlux(n.Fluxes, n.RNG)]
}

// HandleVehicle routes v from incoming onto a weighted-random outgoing
// road, or sinks it if no outgoing road is configured. Sinking sets
// ArrivalTime, matching Intersection's sink behavior for consistency across
// junction variants (the reference implementation's NFurcation sink left
// ArrivalTime unset; unifying the two avoids an unexplained asymmetry in
// arrival accounting).
func (n *NFurcation) HandleVehicle(incoming *road.Road, v *vehicle.Vehicle, excess, t, dt float64) {
	if len(n.Outgoing) == 0 {
		incoming.RemoveVehicle(v)
		v.SetArrivalTime(t)
		return
	}
	admitOrWait(incoming, n.nextRoad(), v, excess, t)
}
