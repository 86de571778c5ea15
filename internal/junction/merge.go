package junction

import (
	"math/rand"

	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// Merge is the two-to-one junction: Incoming1 and Incoming2 both feed
// Outgoing, arbitrated by priority (lower Road.Priority wins) and, for the
// non-priority road, by whether the priority road currently has vehicles
// about to discharge.
type Merge struct {
	Incoming1 *road.Road
	Incoming2 *road.Road
	Outgoing  *road.Road
	RNG       *rand.Rand
}

// NewMerge constructs a Merge feeding outgoing from incoming1 and incoming2.
func NewMerge(incoming1, incoming2, outgoing *road.Road, rng *rand.Rand) *Merge {
	return &Merge{Incoming1: incoming1, Incoming2: incoming2, Outgoing: outgoing, RNG: rng}
}

// priorityRoad returns whichever incoming road has the lower Priority
// number. Ties favor Incoming1, matching the reference implementation's
// <= comparison.
func (m *Merge) priorityRoad() *road.Road {
	if m.Incoming2.Priority < m.Incoming1.Priority {
		return m.Incoming2
	}
	return m.Incoming1
}

// HandleVehicle admits v onto Outgoing when incoming is the priority road,
// or when the priority road currently has no vehicles about to discharge
// (so yielding to it would stall for nothing); otherwise incoming gives way
// at its own length, pending re-evaluation next tick.
func (m *Merge) HandleVehicle(incoming *road.Road, v *vehicle.Vehicle, excess, t, dt float64) {
	priority := m.priorityRoad()
	if incoming == priority || !priority.HasOutgoingVehicles(dt, m.RNG) {
		admitOrWait(incoming, m.Outgoing, v, excess, t)
		return
	}
	incoming.GiveWay(v)
}
