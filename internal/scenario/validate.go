package scenario

import (
	"fmt"

	"github.com/cxd309/trafficsim/internal/network"
	"github.com/cxd309/trafficsim/internal/simerr"
)

// Validate checks a decoded Document for internal consistency: every
// semaphore and junction road reference must name a declared road, every
// junction's outFluxes (when given) must have one weight per outgoing road,
// and the resulting road/junction graph must have no junction left with zero
// incoming or outgoing roads. Unreachable roads are returned as warnings,
// not errors — dead wiring is tolerated, a junction with no way through is
// not.
func Validate(doc Document) ([]string, error) {
	numRoads := len(doc.Roads)
	validRoad := func(id int) bool { return id >= 0 && id < numRoads }

	for i, s := range doc.Semaphores {
		if !validRoad(s.Road) {
			return nil, simerr.NewConfigError(fmt.Sprintf("semaphores[%d].road", i),
				fmt.Errorf("road %d does not exist (have %d roads)", s.Road, numRoads))
		}
	}

	var junctions []network.Junction
	var startingRoadIDs []int
	for id, r := range doc.Roads {
		if r.IsStartingRoad {
			startingRoadIDs = append(startingRoadIDs, id)
		}
	}

	for i, j := range doc.Intersections {
		for _, id := range j.InRoads {
			if !validRoad(id) {
				return nil, simerr.NewConfigError(fmt.Sprintf("intersections[%d].inRoads", i),
					fmt.Errorf("road %d does not exist (have %d roads)", id, numRoads))
			}
		}
		for _, id := range j.OutRoads {
			if !validRoad(id) {
				return nil, simerr.NewConfigError(fmt.Sprintf("intersections[%d].outRoads", i),
					fmt.Errorf("road %d does not exist (have %d roads)", id, numRoads))
			}
		}
		if len(j.OutFluxes) > 0 && len(j.OutFluxes) != len(j.OutRoads) {
			return nil, simerr.NewConfigError(fmt.Sprintf("intersections[%d].outFluxes", i),
				fmt.Errorf("have %d weights for %d outgoing roads", len(j.OutFluxes), len(j.OutRoads)))
		}
		junctions = append(junctions, network.Junction{
			ID:       fmt.Sprintf("intersections[%d]", i),
			Incoming: j.InRoads,
			Outgoing: j.OutRoads,
		})
	}

	var roadIDs []int
	for id := range doc.Roads {
		roadIDs = append(roadIDs, id)
	}

	net, err := network.Build(roadIDs, startingRoadIDs, junctions)
	if err != nil {
		return nil, err
	}

	return net.Unreachable(), nil
}
