// Package junction implements the three dispatch variants that sit at a
// road's downstream end: NFurcation (one-to-many routing by flux weight),
// Merge (two-to-one priority give-way), and Intersection (many-to-many
// two-phase arbitration). Each satisfies road.EndHandler, so package road
// never needs to import this package.
package junction

import (
	"math/rand"

	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// pickByFlux draws an index from fluxes using the same cumulative-weight
// scheme as the reference implementation's getNextRoad: subtract each flux
// from a uniform draw until it goes negative, and pick that index. If the
// fluxes do not sum to (at least) 1, rounding can exhaust the draw without a
// match, in which case index 0 is returned, matching the reference's
// behavior of never reassigning chosenRoad outside the break.
func pickByFlux(fluxes []float64, rng *rand.Rand) int {
	rv := rng.Float64()
	chosen := 0
	for i, f := range fluxes {
		if rv < f {
			chosen = i
			break
		}
		rv -= f
	}
	return chosen
}

// admitOrWait tries to place v onto next at the portion of its overshoot
// that spilled past incoming's end, and falls back to giving way on
// incoming when next has no room. This is the shared tail of NFurcation,
// Merge, and Intersection dispatch once a candidate outgoing road and a
// go/no-go decision have been made.
func admitOrWait(incoming, next *road.Road, v *vehicle.Vehicle, excess, t float64) {
	pos := next.TryAddVehicle(v, t, excess)
	if pos < 0 {
		incoming.WaitForNextRoad(v.LaneIndex, v, excess+incoming.Length)
		return
	}
	incoming.RemoveVehicle(v)
}
