package road

import (
	"math"
	"math/rand"

	"github.com/cxd309/trafficsim/internal/vehicle"
)

// limitSpeed clamps v's speed to the road's posted limit.
func (r *Road) limitSpeed(v *vehicle.Vehicle) {
	if v.Speed > r.SpeedLimit {
		v.SetSpeed(r.SpeedLimit)
	}
}

// precedingVehicleForEntry returns the vehicle nearest ahead of an entering
// vehicle at the given offset — the rearmost member of the "ahead" prefix
// of a descending-ordered lane.
func (r *Road) precedingVehicleForEntry(laneIdx int, position float64) (*vehicle.Vehicle, bool) {
	lane := r.Lanes[laneIdx]
	for i := len(lane) - 1; i >= 0; i-- {
		if lane[i].Position > position {
			return lane[i], true
		}
	}
	return nil, false
}

// TryAddVehicle attempts to admit v onto the road at position (default 0),
// trying each lane slot in turn. Returns the accepted position, or a
// negative value on rejection (v is never left inserted on rejection: a
// just-created vehicle force-admitted by addVehicleToLane to break a
// negative-position deadlock is spliced back out here if every lane still
// reports a negative position).
func (r *Road) TryAddVehicle(v *vehicle.Vehicle, t, position float64) float64 {
	pos := -1.0
	for laneIdx := range r.Lanes {
		pos = r.addVehicleToLane(v, t, position, laneIdx)
		if pos >= 0 {
			return pos
		}
	}
	r.RemoveVehicle(v)
	return pos
}

func (r *Road) addVehicleToLane(v *vehicle.Vehicle, t, position float64, laneIdx int) float64 {
	lead, hasLead := r.precedingVehicleForEntry(laneIdx, position)
	firstSem, hasSem := r.NextSemaphore(0)

	if hasLead {
		safety := lead.Position - r.VehicleDistance - lead.Length
		if lead.Position < 0 {
			position = safety
			if !v.WasJustCreated() {
				return position
			}
		}
		if safety <= 0 {
			position = safety
			if !v.WasJustCreated() {
				return position
			}
			v.StopAtVehicle(0)
		} else if position > safety {
			v.FollowVehicle(lead.Position, lead.Length, lead.Speed, r.VehicleDistance)
		} else {
			v.Position = position
		}
		r.limitSpeed(v)
	} else if hasSem && firstSem.IsRed(t) && position >= firstSem.ResolvedPosition(r.Length) {
		v.StopAtSemaphore(firstSem.ResolvedPosition(r.Length))
	} else {
		v.Position = position
		r.limitSpeed(v)
	}
	v.LaneIndex = laneIdx
	r.insertIntoLane(laneIdx, v)
	return position
}

// vehiclePresent reports whether v is currently on this road, in any lane.
func (r *Road) vehiclePresent(v *vehicle.Vehicle) bool {
	for _, lane := range r.Lanes {
		for _, cur := range lane {
			if cur == v {
				return true
			}
		}
	}
	return false
}

type vehRef struct {
	laneIdx int
	v       *vehicle.Vehicle
}

// MoveVehicles drives every vehicle currently on the road one tick forward.
// A snapshot of the vehicle set is taken first so in-iteration insertions
// or removals caused by junction handoff or lane promotion do not corrupt
// the walk.
func (r *Road) MoveVehicles(t, dt float64, rng *rand.Rand) {
	var snapshot []vehRef
	for li, lane := range r.Lanes {
		for _, v := range lane {
			snapshot = append(snapshot, vehRef{li, v})
		}
	}
	for _, ref := range snapshot {
		r.moveVehicle(ref.laneIdx, ref.v, t, dt, rng)
	}
}

func (r *Road) moveVehicle(laneIdx int, v *vehicle.Vehicle, t, dt float64, rng *rand.Rand) {
	if v.LastUpdate == t && !v.WasJustCreated() {
		return
	}
	if !r.vehiclePresent(v) {
		return
	}

	nextPos := v.CalculatePosition(v.CalculateAcceleration(dt), dt)
	lead, hasLead := r.PrecedingVehicle(laneIdx, v)
	isPrecedingStopped := hasLead && lead.IsStopped()
	nextSem, hasSem := r.NextSemaphore(v.Position)
	nextSemPos := 0.0
	if hasSem {
		nextSemPos = nextSem.ResolvedPosition(r.Length)
	}
	isNextSemRed := hasSem && nextSem.IsRed(t)
	hasCloseRedSem := isNextSemRed && nextPos >= nextSemPos
	safetyFromLead := 0.0
	if hasLead {
		safetyFromLead = lead.Position - r.VehicleDistance - lead.Length
	}
	hasClosePrecVehicle := hasLead && nextPos > safetyFromLead
	noCloseVehiclesOrRedSem := !hasCloseRedSem && !hasClosePrecVehicle

	if !v.IsGivingWay() {
		if v.IsStopped() {
			switch {
			case noCloseVehiclesOrRedSem:
				if hasLead && safetyFromLead < 0 {
					v.StopAtVehicle(0)
				} else {
					r.moveAndOvertakeIfPossible(laneIdx, v, lead, hasLead, dt, rng, false)
				}
			case hasCloseRedSem:
				// remain stopped
			case hasLead && !isPrecedingStopped:
				if safetyFromLead >= 0 {
					r.moveAndOvertakeIfPossible(laneIdx, v, lead, hasLead, dt, rng, false)
				}
			}
		} else {
			switch {
			case noCloseVehiclesOrRedSem:
				posOfNextStopped := math.Inf(1)
				if isPrecedingStopped {
					posOfNextStopped = safetyFromLead
				}
				posOfNextRedSem := math.Inf(1)
				if isNextSemRed {
					posOfNextRedSem = nextSemPos
				}
				minPos := math.Min(posOfNextStopped, posOfNextRedSem)
				if minPos < v.Position+BrakingDistanceLookahead {
					v.BrakeToStopAt(minPos, dt)
				}
				r.moveAndOvertakeIfPossible(laneIdx, v, lead, hasLead, dt, rng, true)
			case hasCloseRedSem && hasClosePrecVehicle:
				if nextSemPos < safetyFromLead {
					v.StopAtSemaphore(nextSemPos)
				} else {
					v.FollowVehicle(lead.Position, lead.Length, lead.Speed, r.VehicleDistance)
				}
			case hasCloseRedSem:
				v.StopAtSemaphore(nextSemPos)
			case hasClosePrecVehicle:
				r.moveAndOvertakeIfPossible(laneIdx, v, lead, hasLead, dt, rng, true)
			}
		}
		r.endOfRoadHandler(laneIdx, v, t, dt)
	} else {
		oldPosition := v.Position
		precCum, hasPrec := 0.0, false
		if p, ok := r.PrecedingVehicle(laneIdx, v); ok {
			precCum, hasPrec = p.CumulativeDelay, true
		}
		v.Restart(r.SpeedLimit, dt, precCum, hasPrec)
		r.endOfRoadHandler(laneIdx, v, t, dt)
		if r.vehiclePresent(v) && v.IsGivingWay() {
			v.Position = oldPosition
		}
	}

	coord := r.Shape.PointAt(v.Position)
	v.Update(t, r.ID, coord.X, coord.Y)
}

// moveAndOvertakeIfPossible applies the single-lane-slot move/restart step,
// then promotes the vehicle into the next lane slot if the result overtakes
// its leader and that lane is free there; otherwise it stops or follows.
// With one configured lane (the reference configuration; see the lane
// promotion Open Question decision) this promotion branch is a no-op since
// no next lane slot exists.
func (r *Road) moveAndOvertakeIfPossible(laneIdx int, v *vehicle.Vehicle, lead *vehicle.Vehicle, hasLead bool, dt float64, rng *rand.Rand, wasMoving bool) {
	safety := 0.0
	if hasLead {
		safety = lead.Position - r.VehicleDistance - lead.Length
	}
	precCum, hasPrec := 0.0, false
	if p, ok := r.PrecedingVehicle(laneIdx, v); ok {
		precCum, hasPrec = p.CumulativeDelay, true
	}
	var newPosition float64
	if wasMoving {
		newPosition = v.Move(r.SpeedLimit, dt, rng, precCum, hasPrec)
	} else {
		newPosition = v.Restart(r.SpeedLimit, dt, precCum, hasPrec)
	}
	if hasLead && newPosition > safety {
		nextLaneIdx := laneIdx + 1
		if r.isLaneFreeAtPosition(nextLaneIdx, newPosition) {
			r.removeFromLane(laneIdx, v)
			v.LaneIndex = nextLaneIdx
			r.insertIntoLane(nextLaneIdx, v)
		} else if lead.IsStopped() {
			v.StopAtVehicle(safety)
		} else {
			v.FollowVehicle(lead.Position, lead.Length, lead.Speed, r.VehicleDistance)
		}
	}
	r.limitSpeed(v)
}

func (r *Road) isLaneFreeAtPosition(laneIdx int, position float64) bool {
	if laneIdx < 0 || laneIdx >= len(r.Lanes) {
		return false
	}
	var nearest *vehicle.Vehicle
	for _, cand := range r.Lanes[laneIdx] {
		if cand.Position > position {
			if nearest == nil || cand.Position < nearest.Position {
				nearest = cand
			}
		}
	}
	if nearest == nil {
		return true
	}
	return nearest.Position-r.VehicleDistance-nearest.Length > position
}

// endOfRoadHandler dispatches to the end junction when v has overshot the
// road, or removes v as an arrival at a dead end.
func (r *Road) endOfRoadHandler(laneIdx int, v *vehicle.Vehicle, t, dt float64) {
	excess := v.Position - r.Length
	if excess <= 0 {
		return
	}
	if r.EndJunction != nil {
		r.EndJunction.HandleVehicle(r, v, excess, t, dt)
		return
	}
	r.removeFromLane(laneIdx, v)
	v.SetArrivalTime(t)
}
